package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/internal/repository"
	"github.com/moon90/rms-admin/internal/repository/cache"
	"github.com/moon90/rms-admin/pkg/auth"
	apperrors "github.com/moon90/rms-admin/pkg/errors"
	"github.com/moon90/rms-admin/pkg/logger"
)

// UserService представляет бизнес-логику для работы с пользователями
type UserService struct {
	repo          repository.UserRepository
	roleRepo      repository.RoleRepository
	jwtManager    *auth.JWTManager
	cacheRepo     *cache.RedisRepository
	logger        logger.Logger
	defaultRoleID int
}

// NewUserService создает новый экземпляр UserService
func NewUserService(repo repository.UserRepository, roleRepo repository.RoleRepository,
	jwtManager *auth.JWTManager, cacheRepo *cache.RedisRepository,
	defaultRoleID int, logger logger.Logger) *UserService {
	return &UserService{
		repo:          repo,
		roleRepo:      roleRepo,
		jwtManager:    jwtManager,
		cacheRepo:     cacheRepo,
		defaultRoleID: defaultRoleID,
		logger:        logger,
	}
}

// Create создает нового пользователя; если роли не переданы, назначается
// роль по умолчанию
func (s *UserService) Create(ctx context.Context, req domain.UserCreateRequest) (*domain.UserResponse, error) {
	existing, err := s.repo.GetByUserName(ctx, req.UserName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("User", "userName", req.UserName)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password", err)
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		UserName:       req.UserName,
		Email:          req.Email,
		HashedPassword: string(hashedPassword),
		FullName:       req.FullName,
		Status:         true,
		CreatedDate:    now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", err)
		return nil, err
	}

	roleIDs := req.RoleIDs
	if len(roleIDs) == 0 && s.defaultRoleID > 0 {
		roleIDs = []int{s.defaultRoleID}
	}
	if len(roleIDs) > 0 {
		if err := s.repo.AssignRoles(ctx, user.ID, roleIDs); err != nil {
			s.logger.Error("Failed to assign roles to new user", err, map[string]interface{}{
				"user_id": user.ID,
			})
			return nil, err
		}
	}

	response := user.ToResponse()
	if roles, err := s.repo.GetRoles(ctx, user.ID); err == nil {
		response.Roles = roles
	}

	return &response, nil
}

// GetByID возвращает пользователя по ID вместе с его ролями
func (s *UserService) GetByID(ctx context.Context, id int) (*domain.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User", id)
	}

	response := user.ToResponse()
	roles, err := s.repo.GetRoles(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to load user roles", map[string]interface{}{
			"user_id": id,
			"error":   err.Error(),
		})
	} else {
		response.Roles = roles
	}

	return &response, nil
}

// Update обновляет данные пользователя
func (s *UserService) Update(ctx context.Context, id int, req domain.UserUpdateRequest) (*domain.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User", id)
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Status != nil {
		user.Status = *req.Status
	}

	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", err, map[string]interface{}{
			"id": id,
		})
		return nil, err
	}

	response := user.ToResponse()
	return &response, nil
}

// Delete удаляет пользователя
func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete user", err, map[string]interface{}{
			"id": id,
		})
		return err
	}

	s.invalidatePermissions(ctx, id)
	return nil
}

// SetStatus включает либо отключает пользователя
func (s *UserService) SetStatus(ctx context.Context, id int, status bool) error {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		s.logger.Error("Failed to set user status", err, map[string]interface{}{
			"id":     id,
			"status": status,
		})
		return err
	}

	s.invalidatePermissions(ctx, id)
	return nil
}

// List возвращает страницу пользователей с фильтрацией
func (s *UserService) List(ctx context.Context, filter repository.UserFilter, page, pageSize int) (*domain.PagedResponse, error) {
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	users, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list users", err)
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count users", err)
		return nil, err
	}

	responses := make([]domain.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}

	return domain.NewPagedResponse(responses, total, page, pageSize), nil
}

// GetRoles возвращает роли пользователя
func (s *UserService) GetRoles(ctx context.Context, userID int) ([]domain.Role, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User", userID)
	}

	return s.repo.GetRoles(ctx, userID)
}

// AssignRoles пакетно назначает пользователю роли; пустой список ролей -
// успешная пустая операция
func (s *UserService) AssignRoles(ctx context.Context, userID int, roleIDs []int) error {
	if len(roleIDs) == 0 {
		return nil
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("User", userID)
	}

	if err := s.repo.AssignRoles(ctx, userID, roleIDs); err != nil {
		s.logger.Error("Failed to assign roles", err, map[string]interface{}{
			"user_id": userID,
			"roles":   roleIDs,
		})
		return err
	}

	s.invalidatePermissions(ctx, userID)
	return nil
}

// UnassignRoles пакетно отзывает роли у пользователя; пустой список ролей -
// успешная пустая операция
func (s *UserService) UnassignRoles(ctx context.Context, userID int, roleIDs []int) error {
	if len(roleIDs) == 0 {
		return nil
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("User", userID)
	}

	if err := s.repo.UnassignRoles(ctx, userID, roleIDs); err != nil {
		s.logger.Error("Failed to unassign roles", err, map[string]interface{}{
			"user_id": userID,
			"roles":   roleIDs,
		})
		return err
	}

	s.invalidatePermissions(ctx, userID)
	return nil
}

// GetPermissionCodes возвращает коды разрешений пользователя, используя кэш
func (s *UserService) GetPermissionCodes(ctx context.Context, userID int) ([]string, error) {
	if codes, err := s.cacheRepo.GetUserPermissions(ctx, userID); err == nil {
		return codes, nil
	}

	permissions, err := s.repo.GetPermissions(ctx, userID)
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(permissions))
	for i, p := range permissions {
		codes[i] = p.Code
	}

	if err := s.cacheRepo.CacheUserPermissions(ctx, userID, codes); err != nil {
		s.logger.Warn("Failed to cache user permissions", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	return codes, nil
}

// Login выполняет вход пользователя и собирает клиентские наборы разрешений
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.repo.GetByUserName(ctx, req.UserName)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logger.Warn("Unknown user attempted to login", map[string]interface{}{
			"user_name": req.UserName,
		})
		return nil, apperrors.Unauthorized("Invalid username or password")
	}

	if !user.Status {
		s.logger.Warn("Inactive user attempted to login", map[string]interface{}{
			"user_name": req.UserName,
		})
		return nil, apperrors.Unauthorized("Invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		s.logger.Warn("Invalid password during login", map[string]interface{}{
			"user_name": req.UserName,
		})
		return nil, apperrors.Unauthorized("Invalid username or password")
	}

	accessToken, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.UserName, auth.AccessToken)
	if err != nil {
		s.logger.Error("Failed to generate access token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	refreshToken, refreshExpiresAt, err := s.jwtManager.GenerateToken(user.ID, user.UserName, auth.RefreshToken)
	if err != nil {
		s.logger.Error("Failed to generate refresh token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	if err := s.cacheRepo.CacheRefreshToken(ctx, user.ID, refreshToken, time.Until(refreshExpiresAt)); err != nil {
		s.logger.Warn("Failed to cache refresh token", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to update last login time", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	response := user.ToResponse()
	if roles, err := s.repo.GetRoles(ctx, user.ID); err == nil {
		response.Roles = roles
	}

	rolePermissions, menuPermissions, err := s.permissionSets(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to load user permissions", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	return &domain.LoginResponse{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		User:            response,
		RolePermissions: rolePermissions,
		MenuPermissions: menuPermissions,
		ExpiresAt:       expiresAt,
	}, nil
}

// RefreshToken обновляет пару токенов
func (s *UserService) RefreshToken(ctx context.Context, req domain.RefreshTokenRequest) (*domain.LoginResponse, error) {
	claims, err := s.jwtManager.VerifyToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}
	if claims.Type != string(auth.RefreshToken) {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}

	stored, err := s.cacheRepo.GetRefreshToken(ctx, claims.UserID)
	if err != nil || stored != req.RefreshToken {
		return nil, apperrors.Unauthorized("Refresh token has been revoked")
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Status {
		return nil, apperrors.Unauthorized("Invalid refresh token")
	}

	accessToken, expiresAt, err := s.jwtManager.GenerateToken(user.ID, user.UserName, auth.AccessToken)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExpiresAt, err := s.jwtManager.GenerateToken(user.ID, user.UserName, auth.RefreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.CacheRefreshToken(ctx, user.ID, refreshToken, time.Until(refreshExpiresAt)); err != nil {
		s.logger.Warn("Failed to cache refresh token", map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}

	rolePermissions, menuPermissions, err := s.permissionSets(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		User:            user.ToResponse(),
		RolePermissions: rolePermissions,
		MenuPermissions: menuPermissions,
		ExpiresAt:       expiresAt,
	}, nil
}

// permissionSets собирает два клиентских набора: коды разрешений и
// категории меню, в которых у пользователя есть хотя бы одно разрешение
func (s *UserService) permissionSets(ctx context.Context, userID int) ([]string, []string, error) {
	permissions, err := s.repo.GetPermissions(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	codes := make([]string, 0, len(permissions))
	menuSet := make(map[string]struct{})
	menus := make([]string, 0)

	for _, p := range permissions {
		codes = append(codes, p.Code)
		if p.Category == "" {
			continue
		}
		if _, ok := menuSet[p.Category]; !ok {
			menuSet[p.Category] = struct{}{}
			menus = append(menus, p.Category)
		}
	}

	return codes, menus, nil
}

// invalidatePermissions сбрасывает кэш разрешений пользователя; вызывается
// при любом изменении, которое может повлиять на его права
func (s *UserService) invalidatePermissions(ctx context.Context, userID int) {
	if err := s.cacheRepo.InvalidateUserPermissions(ctx, userID); err != nil {
		s.logger.Warn("Failed to invalidate user permissions cache", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
	if err := s.cacheRepo.InvalidateUserRoles(ctx, userID); err != nil {
		s.logger.Warn("Failed to invalidate user roles cache", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
