package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/Gopher0727/LinkUp/internal/models"
	"github.com/Gopher0727/LinkUp/internal/repositories"
)

// In-memory store fakes mirroring the behavior of the gorm repositories:
// lookups return (nil, nil) when missing, link writes fail with
// repositories.ErrDuplicateLink, and unique-index conflicts surface as
// gorm.ErrDuplicatedKey.

type fakeUserStore struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint]*models.User), nextID: 1}
}

func (f *fakeUserStore) Create(user *models.User) error {
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.nextID++
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByHandle(handle string) (*models.User, error) {
	for _, u := range f.users {
		if u.Handle == handle {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Update(user *models.User) error {
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) ListByIDs(ids []uint) ([]models.User, error) {
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) ListExcluding(ids []uint) ([]models.User, error) {
	excluded := make(map[uint]bool, len(ids))
	for _, id := range ids {
		excluded[id] = true
	}
	var out []models.User
	for _, u := range f.users {
		if !excluded[u.ID] {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserStore) add(handle string) *models.User {
	u := &models.User{
		Handle:   handle,
		Email:    handle + "@example.com",
		FullName: handle,
	}
	f.Create(u)
	return u
}

type fakeGroupStore struct {
	groups map[uint]*models.Group
	// group side: group -> members
	members map[uint]map[uint]bool
	// user side: user -> groups
	userGroups map[uint]map[uint]bool
	nextID     uint
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{
		groups:     make(map[uint]*models.Group),
		members:    make(map[uint]map[uint]bool),
		userGroups: make(map[uint]map[uint]bool),
		nextID:     1,
	}
}

func (f *fakeGroupStore) Create(group *models.Group) error {
	group.ID = f.nextID
	group.CreatedAt = time.Now()
	f.nextID++
	cp := *group
	f.groups[group.ID] = &cp
	return nil
}

func (f *fakeGroupStore) GetByID(id uint) (*models.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGroupStore) Update(group *models.Group) error {
	cp := *group
	f.groups[group.ID] = &cp
	return nil
}

func (f *fakeGroupStore) Delete(id uint) error {
	delete(f.groups, id)
	delete(f.members, id)
	return nil
}

func (f *fakeGroupStore) AddMember(groupID, userID uint) error {
	if f.members[groupID] == nil {
		f.members[groupID] = make(map[uint]bool)
	}
	if f.members[groupID][userID] {
		return repositories.ErrDuplicateLink
	}
	f.members[groupID][userID] = true
	return nil
}

func (f *fakeGroupStore) RemoveMember(groupID, userID uint) error {
	delete(f.members[groupID], userID)
	return nil
}

func (f *fakeGroupStore) IsMember(groupID, userID uint) (bool, error) {
	return f.members[groupID][userID], nil
}

func (f *fakeGroupStore) MemberIDs(groupID uint) ([]uint, error) {
	ids := make([]uint, 0, len(f.members[groupID]))
	for id := range f.members[groupID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeGroupStore) AddUserGroup(userID, groupID uint) error {
	if f.userGroups[userID] == nil {
		f.userGroups[userID] = make(map[uint]bool)
	}
	if f.userGroups[userID][groupID] {
		return repositories.ErrDuplicateLink
	}
	f.userGroups[userID][groupID] = true
	return nil
}

func (f *fakeGroupStore) RemoveUserGroup(userID, groupID uint) error {
	delete(f.userGroups[userID], groupID)
	return nil
}

func (f *fakeGroupStore) HasGroup(userID, groupID uint) (bool, error) {
	return f.userGroups[userID][groupID], nil
}

func (f *fakeGroupStore) GroupIDs(userID uint) ([]uint, error) {
	ids := make([]uint, 0, len(f.userGroups[userID]))
	for id := range f.userGroups[userID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeGroupStore) ListByIDs(ids []uint) ([]models.Group, error) {
	out := make([]models.Group, 0, len(ids))
	for _, id := range ids {
		if g, ok := f.groups[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGroupStore) ListExcluding(ids []uint) ([]models.Group, error) {
	excluded := make(map[uint]bool, len(ids))
	for _, id := range ids {
		excluded[id] = true
	}
	var out []models.Group
	for _, g := range f.groups {
		if !excluded[g.ID] {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeConnectionStore struct {
	requests map[uint]*models.ConnectionRequest
	nextID   uint
}

func newFakeConnectionStore() *fakeConnectionStore {
	return &fakeConnectionStore{requests: make(map[uint]*models.ConnectionRequest), nextID: 1}
}

func (f *fakeConnectionStore) Create(req *models.ConnectionRequest) error {
	pair := models.PairKey(req.SenderID, req.ReceiverID)
	for _, r := range f.requests {
		if r.PairKey == pair {
			return gorm.ErrDuplicatedKey
		}
	}
	req.ID = f.nextID
	req.PairKey = pair
	req.CreatedAt = time.Now()
	f.nextID++
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeConnectionStore) GetByID(id uint) (*models.ConnectionRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeConnectionStore) GetByPair(a, b uint) (*models.ConnectionRequest, error) {
	pair := models.PairKey(a, b)
	for _, r := range f.requests {
		if r.PairKey == pair {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeConnectionStore) Update(req *models.ConnectionRequest) error {
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeConnectionStore) Delete(id uint) error {
	delete(f.requests, id)
	return nil
}

func (f *fakeConnectionStore) DeleteAcceptedByPair(a, b uint) (*models.ConnectionRequest, error) {
	pair := models.PairKey(a, b)
	for id, r := range f.requests {
		if r.PairKey == pair && r.Status == models.StatusAccepted {
			cp := *r
			delete(f.requests, id)
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeConnectionStore) ListForUser(userID uint) ([]models.ConnectionRequest, error) {
	var out []models.ConnectionRequest
	for _, r := range f.requests {
		if r.SenderID == userID || r.ReceiverID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeConnectionStore) ListPendingForReceiver(userID uint) ([]models.ConnectionRequest, error) {
	var out []models.ConnectionRequest
	for _, r := range f.requests {
		if r.ReceiverID == userID && r.Status == models.StatusPending {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeConnectionStore) ListAcceptedForUser(userID uint) ([]models.ConnectionRequest, error) {
	var out []models.ConnectionRequest
	for _, r := range f.requests {
		if (r.SenderID == userID || r.ReceiverID == userID) && r.Status == models.StatusAccepted {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeInvitationStore struct {
	invites map[uint]*models.GroupInvitation
	nextID  uint
}

func newFakeInvitationStore() *fakeInvitationStore {
	return &fakeInvitationStore{invites: make(map[uint]*models.GroupInvitation), nextID: 1}
}

func (f *fakeInvitationStore) Create(inv *models.GroupInvitation) error {
	for _, i := range f.invites {
		if i.GroupID == inv.GroupID && i.UserID == inv.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	inv.ID = f.nextID
	inv.CreatedAt = time.Now()
	f.nextID++
	cp := *inv
	f.invites[inv.ID] = &cp
	return nil
}

func (f *fakeInvitationStore) GetByID(id uint) (*models.GroupInvitation, error) {
	i, ok := f.invites[id]
	if !ok {
		return nil, nil
	}
	cp := *i
	return &cp, nil
}

func (f *fakeInvitationStore) GetByGroupAndUser(groupID, userID uint) (*models.GroupInvitation, error) {
	for _, i := range f.invites {
		if i.GroupID == groupID && i.UserID == userID {
			cp := *i
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationStore) Update(inv *models.GroupInvitation) error {
	cp := *inv
	f.invites[inv.ID] = &cp
	return nil
}

func (f *fakeInvitationStore) Delete(id uint) error {
	delete(f.invites, id)
	return nil
}

func (f *fakeInvitationStore) DeleteByGroupAndUser(groupID, userID uint) error {
	for id, i := range f.invites {
		if i.GroupID == groupID && i.UserID == userID {
			delete(f.invites, id)
		}
	}
	return nil
}

func (f *fakeInvitationStore) DeleteAllForGroup(groupID uint) error {
	for id, i := range f.invites {
		if i.GroupID == groupID {
			delete(f.invites, id)
		}
	}
	return nil
}

func (f *fakeInvitationStore) ListPendingInvitesForUser(userID uint) ([]models.GroupInvitation, error) {
	var out []models.GroupInvitation
	for _, i := range f.invites {
		if i.UserID == userID && i.Kind == models.KindInvite && i.Status == models.StatusPending {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeInvitationStore) ListPendingJoinRequests(groupID uint) ([]models.GroupInvitation, error) {
	var out []models.GroupInvitation
	for _, i := range f.invites {
		if i.GroupID == groupID && i.Kind == models.KindJoinRequest && i.Status == models.StatusPending {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeInvitationStore) ListForUser(userID uint) ([]models.GroupInvitation, error) {
	var out []models.GroupInvitation
	for _, i := range f.invites {
		if i.UserID == userID {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeChatStore struct {
	purgedGroups []uint
	purgedPairs  [][2]uint
}

func (f *fakeChatStore) DeleteAllForGroup(groupID uint) error {
	f.purgedGroups = append(f.purgedGroups, groupID)
	return nil
}

func (f *fakeChatStore) DeleteAllBetween(a, b uint) error {
	f.purgedPairs = append(f.purgedPairs, [2]uint{a, b})
	return nil
}

type notified struct {
	UserID  uint
	Event   string
	Payload any
}

type fakeNotifier struct {
	events []notified
}

func (f *fakeNotifier) Notify(userID uint, event string, payload any) {
	f.events = append(f.events, notified{UserID: userID, Event: event, Payload: payload})
}

func (f *fakeNotifier) NotifyMany(userIDs []uint, event string, payload any) {
	for _, id := range userIDs {
		f.Notify(id, event, payload)
	}
}

func (f *fakeNotifier) eventsFor(userID uint) []string {
	var out []string
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e.Event)
		}
	}
	return out
}
