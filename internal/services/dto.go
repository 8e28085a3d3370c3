package services

import (
	"github.com/Gopher0727/LinkUp/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

// UserDTO 用户快照（对外只暴露公开字段）
type UserDTO struct {
	ID         uint   `json:"id"`
	Handle     string `json:"handle"`
	FullName   string `json:"full_name"`
	ProfilePic string `json:"profile_pic"`
	Privacy    bool   `json:"privacy"`
}

func newUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:         u.ID,
		Handle:     u.Handle,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
		Privacy:    u.Privacy,
	}
}

func newUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, newUserDTO(&users[i]))
	}
	return dtos
}

// GroupDTO 群组快照，Members 按需填充
type GroupDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Photo       string    `json:"photo"`
	AdminID     uint      `json:"admin_id"`
	Visibility  string    `json:"visibility"`
	Members     []UserDTO `json:"members,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

func newGroupDTO(g *models.Group, members []UserDTO) GroupDTO {
	return GroupDTO{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Photo:       g.Photo,
		AdminID:     g.AdminID,
		Visibility:  g.Visibility,
		Members:     members,
		CreatedAt:   g.CreatedAt.Format(timeLayout),
	}
}

// ConnectionRequestDTO 连接请求快照
type ConnectionRequestDTO struct {
	ID         uint    `json:"id"`
	Sender     UserDTO `json:"sender"`
	ReceiverID uint    `json:"receiver_id"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
}

// GroupRefDTO 邀请里携带的群组摘要
type GroupRefDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

// InvitationDTO 群组邀请/入群申请快照
type InvitationDTO struct {
	ID        uint        `json:"id"`
	Group     GroupRefDTO `json:"group"`
	Sender    UserDTO     `json:"sender"`
	UserID    uint        `json:"user_id"`
	Kind      string      `json:"kind"`
	Status    string      `json:"status"`
	CreatedAt string      `json:"created_at"`
}
