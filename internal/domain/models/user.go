package models

// Role определяет набор возможностей пользователя
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// Capability - отдельное право, которое проверяется вокруг заказов и каталога
type Capability string

const (
	CapCreateProducts Capability = "create_products"
	CapManageOrders   Capability = "manage_orders"
	CapViewAllOrders  Capability = "view_all_orders"
)

// roleCapabilities - таблица прав по ролям
var roleCapabilities = map[Role]map[Capability]bool{
	RoleCustomer: {},
	RoleVendor: {
		CapCreateProducts: true,
		CapManageOrders:   true,
	},
	RoleAdmin: {
		CapCreateProducts: true,
		CapManageOrders:   true,
		CapViewAllOrders:  true,
	},
}

// Valid сообщает, известна ли роль
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// User представляет пользователя
type User struct {
	ID          int64
	Email       string
	PassHash    []byte
	Role        Role
	IsSuperuser bool
	FirstName   string
	LastName    string
	Phone       string
	Address     string
	City        string
	PostalCode  string
	Country     string
}

// Can проверяет право пользователя; суперпользователь может всё
func (u *User) Can(c Capability) bool {
	if u == nil {
		return false
	}
	if u.IsSuperuser {
		return true
	}
	return roleCapabilities[u.Role][c]
}

// ContactDefaults возвращает контактные данные профиля для предзаполнения заказа
func (u *User) ContactDefaults() ContactInfo {
	return ContactInfo{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		Address:    u.Address,
		City:       u.City,
		PostalCode: u.PostalCode,
		Country:    u.Country,
	}
}
