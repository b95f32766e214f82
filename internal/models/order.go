package models

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPlaced    OrderStatus = "PLACED"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Address is the checkout shipping form. Pin code and mobile carry the
// same shape rules the web form enforced.
type Address struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name" validate:"required"`
	Street   string `json:"street" validate:"required"`
	Locality string `json:"locality,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	PinCode  string `json:"pinCode" validate:"required,pincode"`
	Mobile   string `json:"mobile" validate:"required,mobile"`
	Country  string `json:"country,omitempty"`
}

type OrderItem struct {
	ID           int64    `json:"id"`
	Product      *Product `json:"product,omitempty"`
	Size         string   `json:"size,omitempty"`
	Quantity     int      `json:"quantity"`
	MRPPrice     int      `json:"mrpPrice"`
	SellingPrice int      `json:"sellingPrice"`
	UserID       int64    `json:"userId,omitempty"`
}

type Order struct {
	ID                int64       `json:"id"`
	OrderID           string      `json:"orderId,omitempty"`
	OrderStatus       OrderStatus `json:"orderStatus"`
	OrderItems        []OrderItem `json:"orderItems"`
	ShippingAddress   *Address    `json:"shippingAddress,omitempty"`
	TotalMRPPrice     int         `json:"totalMrpPrice"`
	TotalSellingPrice int         `json:"totalSellingPrice"`
	TotalItem         int         `json:"totalItem,omitempty"`
	Discount          int         `json:"discount,omitempty"`
	PaymentStatus     string      `json:"paymentStatus,omitempty"`
	OrderDate         string      `json:"orderDate,omitempty"`
	DeliverDate       string      `json:"deliverDate,omitempty"`
}

// PaymentLinkResponse is the order-creation answer. The client does not
// talk to the payment gateway itself; it hands the link to the user.
type PaymentLinkResponse struct {
	PaymentLinkURL string `json:"payment_link_url"`
	PaymentLinkID  string `json:"payment_link_id,omitempty"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus OrderStatus `json:"orderStatus" validate:"required,oneof=PENDING PLACED CONFIRMED SHIPPED DELIVERED CANCELLED"`
}
