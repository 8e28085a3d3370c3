package services

import (
	"github.com/Gopher0727/LinkUp/internal/apperrors"
	"github.com/Gopher0727/LinkUp/internal/models"
	"github.com/Gopher0727/LinkUp/internal/utils"
	pkgutils "github.com/Gopher0727/LinkUp/pkg/utils"
)

// UserService 账号注册、登录与个人资料
type UserService struct {
	users UserStore
}

// NewUserService 创建用户服务实例
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// RegisterRequest 注册请求参数
type RegisterRequest struct {
	Handle   string `json:"handle" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// AuthResult 注册/登录结果
type AuthResult struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// Register 注册新用户
func (s *UserService) Register(req RegisterRequest) (*AuthResult, error) {
	if !utils.ValidateHandle(req.Handle) {
		return nil, apperrors.Validationf("handle must be 3-18 characters of letters, digits or underscore")
	}
	if !utils.ValidateEmail(req.Email) {
		return nil, apperrors.Validationf("invalid email format")
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, apperrors.Validationf("password must be at least 8 characters")
	}
	if req.FullName == "" {
		return nil, apperrors.Validationf("full name is required")
	}

	existing, err := s.users.GetByHandle(req.Handle)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, apperrors.Conflictf("handle already taken")
	}

	existing, err = s.users.GetByEmail(req.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, apperrors.Conflictf("email already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &models.User{
		Handle:       req.Handle,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
	}
	if err := s.users.Create(user); err != nil {
		return nil, apperrors.Internal(err)
	}

	token, err := pkgutils.GenerateToken(user.ID, user.Handle)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &AuthResult{Token: token, User: newUserDTO(user)}, nil
}

// Login 登录，identifier 可以是 handle 或邮箱
func (s *UserService) Login(identifier, password string) (*AuthResult, error) {
	if identifier == "" || password == "" {
		return nil, apperrors.Validationf("identifier and password are required")
	}

	user, err := s.users.GetByHandle(identifier)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		user, err = s.users.GetByEmail(identifier)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, password) {
		// 不区分"用户不存在"和"密码错误"
		return nil, apperrors.Unauthorizedf("invalid credentials")
	}

	token, err := pkgutils.GenerateToken(user.ID, user.Handle)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &AuthResult{Token: token, User: newUserDTO(user)}, nil
}

// GetProfile 获取用户资料
func (s *UserService) GetProfile(userID uint) (*UserDTO, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.NotFoundf("user not found")
	}
	dto := newUserDTO(user)
	return &dto, nil
}

// UpdateProfileRequest 资料更新参数，均为可选
type UpdateProfileRequest struct {
	FullName   *string `json:"full_name"`
	ProfilePic *string `json:"profile_pic"`
	Privacy    *bool   `json:"privacy"`
}

// UpdateProfile 更新用户资料，至少需要提供一个字段
func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*UserDTO, error) {
	if req.FullName == nil && req.ProfilePic == nil && req.Privacy == nil {
		return nil, apperrors.Validationf("at least one field is required")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.NotFoundf("user not found")
	}

	if req.FullName != nil {
		if *req.FullName == "" {
			return nil, apperrors.Validationf("full name cannot be empty")
		}
		user.FullName = *req.FullName
	}
	if req.ProfilePic != nil {
		user.ProfilePic = *req.ProfilePic
	}
	if req.Privacy != nil {
		user.Privacy = *req.Privacy
	}

	if err := s.users.Update(user); err != nil {
		return nil, apperrors.Internal(err)
	}

	dto := newUserDTO(user)
	return &dto, nil
}
