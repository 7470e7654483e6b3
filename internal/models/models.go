package models

import "time"

// User is a registered customer or administrator. The password column
// holds a bcrypt hash and is never serialized.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	IsAdmin   bool      `db:"is_admin" json:"is_admin"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	Address   string    `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Category groups products. Name is unique.
type Category struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CategoryWithCount is a category row joined with its product count.
type CategoryWithCount struct {
	Category
	ProductCount int64 `db:"product_count" json:"product_count"`
}

// Product is a catalog item. Quantity is the live stock and is only
// ever decremented through the guarded conditional update.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Brand       string    `db:"brand" json:"brand"`
	Price       float64   `db:"price" json:"price"`
	Quantity    int       `db:"quantity" json:"quantity"`
	CategoryID  int64     `db:"category_id" json:"category_id"`
	ImageURL    string    `db:"image_url" json:"image_url"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Order is an order header. Lines live in order_product.
type Order struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	TotalPrice    float64   `db:"total_price" json:"total_price"`
	ShippingCost  float64   `db:"shipping_cost" json:"shipping_cost"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	Address       string    `db:"address" json:"address"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// OrderWithUser is an order joined with the owning user's name/email.
type OrderWithUser struct {
	Order
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

// OrderProduct is one line of an order. Unit price is a snapshot taken
// at order time, intentionally decoupled from the live product price.
type OrderProduct struct {
	ID        int64     `db:"id" json:"id"`
	OrderID   int64     `db:"order_id" json:"order_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	UnitPrice float64   `db:"unit_price" json:"unit_price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// OrderStatuses lists every accepted status value. Transitions between
// them are not restricted; any listed value may be written at any time.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Payment methods
const (
	PaymentCreditCard     = "credit_card"
	PaymentDebitCard      = "debit_card"
	PaymentPaypal         = "paypal"
	PaymentCashOnDelivery = "cash_on_delivery"
	PaymentBankTransfer   = "bank_transfer"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []string{
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentPaypal,
	PaymentCashOnDelivery,
	PaymentBankTransfer,
}

// Roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
