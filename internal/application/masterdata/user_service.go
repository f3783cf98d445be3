package masterdata

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// CreateUserRequest carries a new user and their capability grants.
type CreateUserRequest struct {
	Username      string `json:"username" binding:"required,min=3,max=64"`
	Password      string `json:"password" binding:"required,min=8"`
	Name          string `json:"name" binding:"required,max=128"`
	WarehouseCode string `json:"warehouse_code" binding:"required,max=16"`
	BranchCode    string `json:"branch_code" binding:"required,max=16"`

	IsAdmin     bool `json:"is_admin"`
	IsManager   bool `json:"is_manager"`
	IsSales     bool `json:"is_sales"`
	IsCashier   bool `json:"is_cashier"`
	IsAuditor   bool `json:"is_auditor"`
	CanTransfer bool `json:"can_transfer"`
	CanReceive  bool `json:"can_receive"`
	CanVoid     bool `json:"can_void"`
	CanDiscount bool `json:"can_discount"`
	CanAddSap   bool `json:"can_add_sap"`
	OwnStock    bool `json:"own_stock"`
	AllowEnding bool `json:"allow_ending"`
	AllowPull   bool `json:"allow_pullout"`
}

// UpdateUserRequest carries mutable user fields. Nil fields are left
// untouched.
type UpdateUserRequest struct {
	Password      *string `json:"password"`
	Name          *string `json:"name"`
	WarehouseCode *string `json:"warehouse_code"`
	BranchCode    *string `json:"branch_code"`
	Active        *bool   `json:"active"`

	IsAdmin     *bool `json:"is_admin"`
	IsManager   *bool `json:"is_manager"`
	IsSales     *bool `json:"is_sales"`
	IsCashier   *bool `json:"is_cashier"`
	IsAuditor   *bool `json:"is_auditor"`
	CanTransfer *bool `json:"can_transfer"`
	CanReceive  *bool `json:"can_receive"`
	CanVoid     *bool `json:"can_void"`
	CanDiscount *bool `json:"can_discount"`
	CanAddSap   *bool `json:"can_add_sap"`
	OwnStock    *bool `json:"own_stock"`
	AllowEnding *bool `json:"allow_ending"`
	AllowPull   *bool `json:"allow_pullout"`
}

// UserService administers user accounts. Admin only.
type UserService struct {
	scope  posting.TransactionScope
	hasher PasswordHasher
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(scope posting.TransactionScope, hasher PasswordHasher, logger *zap.Logger) *UserService {
	return &UserService{scope: scope, hasher: hasher, logger: logger}
}

// Create registers a user bound to an existing warehouse and branch.
func (s *UserService) Create(ctx context.Context, actor identity.Actor, req CreateUserRequest) (*identity.User, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	var result *identity.User
	err = s.scope.Execute(ctx, func(r posting.Repos) error {
		if _, err := r.Users().FindByUsername(ctx, req.Username); err == nil {
			return shared.ErrAlreadyExists
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if exists, err := r.Warehouses().ExistsByCode(ctx, req.WarehouseCode); err != nil {
			return err
		} else if !exists {
			return shared.ErrNotFound
		}
		if _, err := r.Branches().FindByCode(ctx, req.BranchCode); err != nil {
			return err
		}

		u, err := identity.NewUser(req.Username, req.Name, req.WarehouseCode, req.BranchCode)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
		u.IsAdmin = req.IsAdmin
		u.IsManager = req.IsManager
		u.IsSales = req.IsSales
		u.IsCashier = req.IsCashier
		u.IsAuditor = req.IsAuditor
		u.CanTransfer = req.CanTransfer
		u.CanReceive = req.CanReceive
		u.CanVoid = req.CanVoid
		u.CanDiscount = req.CanDiscount
		u.CanAddSap = req.CanAddSap
		u.OwnStock = req.OwnStock
		u.AllowEnding = req.AllowEnding
		u.AllowPull = req.AllowPull

		if err := r.Users().Save(ctx, u); err != nil {
			return err
		}
		result = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("username", result.Username),
		zap.String("warehouse", result.WarehouseCode),
		zap.String("actor", actor.Username))
	return result, nil
}

// Update changes user fields and capability grants.
func (s *UserService) Update(ctx context.Context, actor identity.Actor, username string, req UpdateUserRequest) (*identity.User, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *identity.User
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		u, err := r.Users().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if req.Password != nil {
			hash, err := s.hasher.Hash(*req.Password)
			if err != nil {
				return err
			}
			u.PasswordHash = hash
		}
		if req.Name != nil {
			u.Name = *req.Name
		}
		if req.WarehouseCode != nil {
			if exists, err := r.Warehouses().ExistsByCode(ctx, *req.WarehouseCode); err != nil {
				return err
			} else if !exists {
				return shared.ErrNotFound
			}
			u.WarehouseCode = *req.WarehouseCode
		}
		if req.BranchCode != nil {
			if _, err := r.Branches().FindByCode(ctx, *req.BranchCode); err != nil {
				return err
			}
			u.BranchCode = *req.BranchCode
		}
		if req.Active != nil {
			u.Active = *req.Active
		}

		setFlag := func(dst *bool, src *bool) {
			if src != nil {
				*dst = *src
			}
		}
		setFlag(&u.IsAdmin, req.IsAdmin)
		setFlag(&u.IsManager, req.IsManager)
		setFlag(&u.IsSales, req.IsSales)
		setFlag(&u.IsCashier, req.IsCashier)
		setFlag(&u.IsAuditor, req.IsAuditor)
		setFlag(&u.CanTransfer, req.CanTransfer)
		setFlag(&u.CanReceive, req.CanReceive)
		setFlag(&u.CanVoid, req.CanVoid)
		setFlag(&u.CanDiscount, req.CanDiscount)
		setFlag(&u.CanAddSap, req.CanAddSap)
		setFlag(&u.OwnStock, req.OwnStock)
		setFlag(&u.AllowEnding, req.AllowEnding)
		setFlag(&u.AllowPull, req.AllowPull)

		if err := r.Users().Save(ctx, u); err != nil {
			return err
		}
		result = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user updated", zap.String("username", username), zap.String("actor", actor.Username))
	return result, nil
}

// Get returns one user by username.
func (s *UserService) Get(ctx context.Context, actor identity.Actor, username string) (*identity.User, error) {
	if !actor.Can(identity.CapAdmin) && actor.Username != username {
		return nil, shared.ErrUnauthorized
	}

	var result *identity.User
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		u, err := r.Users().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		result = u
		return nil
	})
	return result, err
}

// List returns users matching the filter.
func (s *UserService) List(ctx context.Context, actor identity.Actor, filter shared.Filter) ([]identity.User, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result []identity.User
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.Users().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
