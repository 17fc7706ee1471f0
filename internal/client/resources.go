package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/moon90/rms-admin/internal/domain"
	"github.com/moon90/rms-admin/pkg/listview"
)

// Users

// UsersFetcher возвращает загрузчик страниц списка пользователей
func (c *Client) UsersFetcher() listview.Fetcher[domain.UserResponse] {
	return func(ctx context.Context, q listview.Query) (listview.Page[domain.UserResponse], error) {
		return fetchList[domain.UserResponse](ctx, c, "/Users", q, nil)
	}
}

// GetUser возвращает пользователя по идентификатору
func (c *Client) GetUser(ctx context.Context, id int) (*domain.UserResponse, error) {
	var user domain.UserResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/Users/%d", id), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser создает нового пользователя
func (c *Client) CreateUser(ctx context.Context, req domain.UserCreateRequest) (*domain.UserResponse, error) {
	var user domain.UserResponse
	if err := c.do(ctx, http.MethodPost, "/Users", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser обновляет пользователя
func (c *Client) UpdateUser(ctx context.Context, id int, req domain.UserUpdateRequest) (*domain.UserResponse, error) {
	var user domain.UserResponse
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/Users/%d", id), nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser удаляет пользователя
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/Users/%d", id), nil, nil, nil)
}

// SetUserStatus включает или отключает пользователя
func (c *Client) SetUserStatus(ctx context.Context, id int, status bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/Users/%d/status", id), nil, domain.StatusRequest{Status: &status}, nil)
}

// GetUserRoles возвращает роли пользователя
func (c *Client) GetUserRoles(ctx context.Context, id int) ([]domain.Role, error) {
	var roles []domain.Role
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/Users/%d/roles", id), nil, nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// AssignRoles назначает пользователю роли одним пакетным вызовом
func (c *Client) AssignRoles(ctx context.Context, userID int, roleIDs []int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/Users/%d/assign-roles", userID), nil, domain.AssignRolesRequest(roleIDs), nil)
}

// UnassignRoles отзывает у пользователя роли одним пакетным вызовом
func (c *Client) UnassignRoles(ctx context.Context, userID int, roleIDs []int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/Users/%d/unassign-roles", userID), nil, domain.AssignRolesRequest(roleIDs), nil)
}

// RoleReconciler возвращает реконсилер ролей, привязанный к пакетным
// вызовам этого клиента
func (c *Client) RoleReconciler(policy listview.EmptyTargetPolicy) *listview.Reconciler {
	return listview.NewReconciler(c.AssignRoles, c.UnassignRoles, policy, c.logger)
}

// Roles

// RolesFetcher возвращает загрузчик страниц списка ролей
func (c *Client) RolesFetcher() listview.Fetcher[domain.Role] {
	return func(ctx context.Context, q listview.Query) (listview.Page[domain.Role], error) {
		return fetchList[domain.Role](ctx, c, "/Roles", q, nil)
	}
}

// GetRole возвращает роль по идентификатору
func (c *Client) GetRole(ctx context.Context, id int) (*domain.Role, error) {
	var role domain.Role
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/Roles/%d", id), nil, nil, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// CreateRole создает новую роль
func (c *Client) CreateRole(ctx context.Context, req domain.RoleCreateRequest) (*domain.Role, error) {
	var role domain.Role
	if err := c.do(ctx, http.MethodPost, "/Roles", nil, req, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// UpdateRole обновляет роль
func (c *Client) UpdateRole(ctx context.Context, id int, req domain.RoleUpdateRequest) (*domain.Role, error) {
	var role domain.Role
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/Roles/%d", id), nil, req, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

// DeleteRole удаляет роль; роль с назначенными пользователями бэкенд
// удалить не даст
func (c *Client) DeleteRole(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/Roles/%d", id), nil, nil, nil)
}

// SetRoleStatus включает или отключает роль
func (c *Client) SetRoleStatus(ctx context.Context, id int, status bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/Roles/%d/status", id), nil, domain.StatusRequest{Status: &status}, nil)
}

// GetRolePermissions возвращает разрешения роли
func (c *Client) GetRolePermissions(ctx context.Context, id int) ([]domain.Permission, error) {
	var permissions []domain.Permission
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/Roles/%d/permissions", id), nil, nil, &permissions); err != nil {
		return nil, err
	}
	return permissions, nil
}

// AssignPermissions назначает роли разрешения одним пакетным вызовом
func (c *Client) AssignPermissions(ctx context.Context, roleID int, permissionIDs []int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/Roles/%d/assign-permissions", roleID), nil, permissionIDs, nil)
}

// UnassignPermissions отзывает у роли разрешения одним пакетным вызовом
func (c *Client) UnassignPermissions(ctx context.Context, roleID int, permissionIDs []int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/Roles/%d/unassign-permissions", roleID), nil, permissionIDs, nil)
}

// PermissionReconciler возвращает реконсилер разрешений роли
func (c *Client) PermissionReconciler() *listview.Reconciler {
	return listview.NewReconciler(c.AssignPermissions, c.UnassignPermissions, listview.KeepEmpty, c.logger)
}

// Permissions

// PermissionsFetcher возвращает загрузчик страниц списка разрешений
func (c *Client) PermissionsFetcher() listview.Fetcher[domain.Permission] {
	return func(ctx context.Context, q listview.Query) (listview.Page[domain.Permission], error) {
		return fetchList[domain.Permission](ctx, c, "/Permissions", q, nil)
	}
}

// CreatePermission создает новое разрешение
func (c *Client) CreatePermission(ctx context.Context, req domain.PermissionCreateRequest) (*domain.Permission, error) {
	var permission domain.Permission
	if err := c.do(ctx, http.MethodPost, "/Permissions", nil, req, &permission); err != nil {
		return nil, err
	}
	return &permission, nil
}

// UpdatePermission обновляет разрешение
func (c *Client) UpdatePermission(ctx context.Context, id int, req domain.PermissionUpdateRequest) (*domain.Permission, error) {
	var permission domain.Permission
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/Permissions/%d", id), nil, req, &permission); err != nil {
		return nil, err
	}
	return &permission, nil
}

// DeletePermission удаляет разрешение
func (c *Client) DeletePermission(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/Permissions/%d", id), nil, nil, nil)
}

// SetPermissionStatus включает или отключает разрешение
func (c *Client) SetPermissionStatus(ctx context.Context, id int, status bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/Permissions/%d/status", id), nil, domain.StatusRequest{Status: &status}, nil)
}

// Units

// UnitsFetcher возвращает загрузчик страниц списка единиц измерения
func (c *Client) UnitsFetcher() listview.Fetcher[domain.Unit] {
	return func(ctx context.Context, q listview.Query) (listview.Page[domain.Unit], error) {
		return fetchList[domain.Unit](ctx, c, "/Units", q, nil)
	}
}

// CreateUnit создает новую единицу измерения
func (c *Client) CreateUnit(ctx context.Context, req domain.UnitCreateRequest) (*domain.Unit, error) {
	var unit domain.Unit
	if err := c.do(ctx, http.MethodPost, "/Units", nil, req, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// UpdateUnit обновляет единицу измерения
func (c *Client) UpdateUnit(ctx context.Context, id int, req domain.UnitUpdateRequest) (*domain.Unit, error) {
	var unit domain.Unit
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/Units/%d", id), nil, req, &unit); err != nil {
		return nil, err
	}
	return &unit, nil
}

// DeleteUnit удаляет единицу измерения; единицу, на которую ссылаются
// ингредиенты или продукты, бэкенд удалить не даст
func (c *Client) DeleteUnit(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/Units/%d", id), nil, nil, nil)
}

// SetUnitStatus включает или отключает единицу измерения
func (c *Client) SetUnitStatus(ctx context.Context, id int, status bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/Units/%d/status", id), nil, domain.StatusRequest{Status: &status}, nil)
}

// Ingredients

// IngredientsFetcher возвращает загрузчик страниц списка ингредиентов
func (c *Client) IngredientsFetcher() listview.Fetcher[domain.Ingredient] {
	return func(ctx context.Context, q listview.Query) (listview.Page[domain.Ingredient], error) {
		return fetchList[domain.Ingredient](ctx, c, "/Ingredients", q, nil)
	}
}

// CreateIngredient создает новый ингредиент
func (c *Client) CreateIngredient(ctx context.Context, req domain.IngredientCreateRequest) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := c.do(ctx, http.MethodPost, "/Ingredients", nil, req, &ingredient); err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// UpdateIngredient обновляет ингредиент
func (c *Client) UpdateIngredient(ctx context.Context, id int, req domain.IngredientUpdateRequest) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/Ingredients/%d", id), nil, req, &ingredient); err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// DeleteIngredient удаляет ингредиент
func (c *Client) DeleteIngredient(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/Ingredients/%d", id), nil, nil, nil)
}

// SetIngredientStatus включает или отключает ингредиент
func (c *Client) SetIngredientStatus(ctx context.Context, id int, status bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/Ingredients/%d/status", id), nil, domain.StatusRequest{Status: &status}, nil)
}

// Inventory

// ProductsFetcher возвращает загрузчик страниц списка складских позиций
func (c *Client) ProductsFetcher() listview.Fetcher[domain.Product] {
	return func(ctx context.Context, q listview.Query) (listview.Page[domain.Product], error) {
		return fetchList[domain.Product](ctx, c, "/Inventory", q, nil)
	}
}

// GetProduct возвращает складскую позицию по идентификатору
func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/Inventory/%d", id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct создает новую складскую позицию
func (c *Client) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/Inventory", nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct обновляет складскую позицию; остаток через этот вызов не
// меняется, для этого есть складские операции
func (c *Client) UpdateProduct(ctx context.Context, id int, req domain.ProductUpdateRequest) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/Inventory/%d", id), nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct удаляет складскую позицию
func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/Inventory/%d", id), nil, nil, nil)
}

// SetProductStatus включает или отключает складскую позицию
func (c *Client) SetProductStatus(ctx context.Context, id int, status bool) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/Inventory/%d/status", id), nil, domain.StatusRequest{Status: &status}, nil)
}

// GetProductComposition возвращает состав продукта
func (c *Client) GetProductComposition(ctx context.Context, productID int) ([]domain.ProductIngredient, error) {
	var rows []domain.ProductIngredient
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/Inventory/%d/ingredients", productID), nil, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceProductComposition полностью заменяет состав продукта
func (c *Client) ReplaceProductComposition(ctx context.Context, productID int, rows []domain.CompositionRow) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/Inventory/%d/ingredients", productID), nil, rows, nil)
}

// ProductIngredients

// ProductIngredientsFetcher возвращает загрузчик страниц списка строк
// состава; ненулевой productID ограничивает список одним продуктом
func (c *Client) ProductIngredientsFetcher(productID int) listview.Fetcher[domain.ProductIngredient] {
	return func(ctx context.Context, q listview.Query) (listview.Page[domain.ProductIngredient], error) {
		extra := url.Values{}
		if productID > 0 {
			extra.Set("productID", strconv.Itoa(productID))
		}
		return fetchList[domain.ProductIngredient](ctx, c, "/ProductIngredients", q, extra)
	}
}

// CreateProductIngredient создает строку состава
func (c *Client) CreateProductIngredient(ctx context.Context, req domain.ProductIngredientCreateRequest) (*domain.ProductIngredient, error) {
	var row domain.ProductIngredient
	if err := c.do(ctx, http.MethodPost, "/ProductIngredients", nil, req, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateProductIngredient обновляет строку состава
func (c *Client) UpdateProductIngredient(ctx context.Context, id int, req domain.ProductIngredientUpdateRequest) (*domain.ProductIngredient, error) {
	var row domain.ProductIngredient
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/ProductIngredients/%d", id), nil, req, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// DeleteProductIngredient удаляет строку состава
func (c *Client) DeleteProductIngredient(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/ProductIngredients/%d", id), nil, nil, nil)
}

// StockTransactions

// StockTransactionsFetcher возвращает загрузчик страниц журнала складских
// операций; ненулевой productID и непустой txType сужают журнал
func (c *Client) StockTransactionsFetcher(productID int, txType domain.StockTransactionType) listview.Fetcher[domain.StockTransaction] {
	return func(ctx context.Context, q listview.Query) (listview.Page[domain.StockTransaction], error) {
		extra := url.Values{}
		if productID > 0 {
			extra.Set("productID", strconv.Itoa(productID))
		}
		if txType != "" {
			extra.Set("type", string(txType))
		}
		return fetchList[domain.StockTransaction](ctx, c, "/StockTransactions", q, extra)
	}
}

// CreateStockTransaction создает складскую операцию
func (c *Client) CreateStockTransaction(ctx context.Context, req domain.StockTransactionCreateRequest) (*domain.StockTransaction, error) {
	var tx domain.StockTransaction
	if err := c.do(ctx, http.MethodPost, "/StockTransactions", nil, req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// Dashboard

// LowStock возвращает позиции, у которых остаток не превышает порог дозаказа
func (c *Client) LowStock(ctx context.Context) ([]domain.LowStockItem, error) {
	var items []domain.LowStockItem
	if err := c.do(ctx, http.MethodGet, "/Dashboard/low-stock", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}
