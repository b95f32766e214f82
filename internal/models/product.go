package models

type Category struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	CategoryID     string    `json:"categoryId,omitempty"`
	Level          int       `json:"level,omitempty"`
	ParentCategory *Category `json:"parentCategory,omitempty"`
}

type Product struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	MRPPrice        int       `json:"mrpPrice"`
	SellingPrice    int       `json:"sellingPrice"`
	DiscountPercent int       `json:"discountPercent"`
	Color           string    `json:"color,omitempty"`
	Images          []string  `json:"images,omitempty"`
	Sizes           string    `json:"sizes,omitempty"`
	Quantity        int       `json:"quantity"`
	Category        *Category `json:"category,omitempty"`
	NumRatings      int       `json:"numRatings,omitempty"`
}

// ProductPage is the Spring-style page envelope the listing endpoint
// returns. Search answers with a bare array instead.
type ProductPage struct {
	Content       []Product `json:"content"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements,omitempty"`
	Number        int       `json:"number,omitempty"`
	Size          int       `json:"size,omitempty"`
	Last          bool      `json:"last,omitempty"`
}

// CreateProductRequest carries the seller product form. Category names are
// sent flat; the backend resolves the three-level hierarchy.
type CreateProductRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=200"`
	Description  string   `json:"description" validate:"required"`
	MRPPrice     int      `json:"mrpPrice" validate:"required,gt=0"`
	SellingPrice int      `json:"sellingPrice" validate:"required,gt=0"`
	Color        string   `json:"color,omitempty"`
	Images       []string `json:"images,omitempty"`
	Category     string   `json:"category,omitempty"`
	Category2    string   `json:"category2,omitempty"`
	Category3    string   `json:"category3,omitempty"`
	Sizes        string   `json:"sizes,omitempty"`
	Quantity     int      `json:"quantity" validate:"gte=0"`
}
