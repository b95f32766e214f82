package models

type CartItem struct {
	ID           int64    `json:"id"`
	Product      *Product `json:"product,omitempty"`
	Size         string   `json:"size,omitempty"`
	Quantity     int      `json:"quantity"`
	MRPPrice     int      `json:"mrpPrice"`
	SellingPrice int      `json:"sellingPrice"`
	UserID       int64    `json:"userId,omitempty"`
}

// Cart mirrors the server-owned cart. Totals are server-computed; the
// client never derives them from item prices.
type Cart struct {
	ID                int64      `json:"id"`
	CartItems         []CartItem `json:"cartItems"`
	TotalMRPPrice     int        `json:"totalMrpPrice"`
	TotalSellingPrice int        `json:"totalSellingPrice"`
	Discount          int        `json:"discount,omitempty"`
	CouponPrice       int        `json:"couponPrice,omitempty"`
	TotalItem         int        `json:"totalItem,omitempty"`
	CouponCode        string     `json:"couponCode,omitempty"`
}

type AddCartItemRequest struct {
	ProductID int64  `json:"productId" validate:"required"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}
