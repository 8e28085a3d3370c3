package notify

// 实时事件名，与客户端约定保持稳定
const (
	EventNewGroup          = "newGroup"          // 收到新群组（被加入或邀请被接受）
	EventNewMember         = "newMember"         // 群组新增成员
	EventUpdatedMembers    = "updatedMembers"    // 群组成员变动（移除/退出）
	EventRemovedGroup      = "removedGroup"      // 群组被删除或自己被移出
	EventUpdatedGroupData  = "updatedGroupData"  // 群组资料更新
	EventNewGroupRequest   = "newGroupRequest"   // 新的群组邀请/入群申请
	EventNewUserRequest    = "newUserRequest"    // 新的连接请求
	EventNewConnection     = "newConnection"     // 连接请求被接受
	EventRemovedConnection = "removedConnection" // 连接被解除
)

// Envelope 跨节点投递的事件信封（Kafka 消息体）
type Envelope struct {
	UserID  uint   `json:"user_id"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}
