package models

import "time"

// User represents an account on the marketplace. Role is one of
// "customer", "printer" or "admin".
type User struct {
	ID          int       `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"password,omitempty"`
	CompanyName string    `json:"company_name"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNo     string    `json:"phone_no"`
	RoleName    string    `json:"role_name"`
	Suspended   bool      `json:"suspended"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Session struct {
	UserID                int       `json:"user_id"`
	SessionID             string    `json:"session_id"`
	HostName              string    `json:"host_name"`
	IPAddress             string    `json:"ip_address"`
	Timestamp             time.Time `json:"timestamp"`
	ExpiresAt             time.Time `json:"expires_at"`
	RefreshToken          string    `json:"refresh_token,omitempty"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"ip"`
}

type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
	ExpiresIn    int    `json:"expires_in"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// Category is a browsable product category on the marketplace landing pages.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Product is a printable product offered inside a category
// (business cards, labels, banners and so on).
type Product struct {
	ID          int     `json:"id"`
	CategoryID  int     `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MinQuantity int     `json:"min_quantity"`
	BasePrice   float64 `json:"base_price"`
	Active      bool    `json:"active"`
}

// Quote request lifecycle: pending -> quoted -> accepted | rejected.
const (
	QuoteStatusPending  = "pending"
	QuoteStatusQuoted   = "quoted"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

// QuoteRequest is a customer's request for an offer on a product.
type QuoteRequest struct {
	ID             int       `json:"id"`
	QuoteCode      string    `json:"quote_code"`
	CustomerID     int       `json:"customer_id"`
	CustomerName   string    `json:"customer_name,omitempty"`
	ProductID      int       `json:"product_id"`
	ProductName    string    `json:"product_name,omitempty"`
	Quantity       int       `json:"quantity"`
	WidthMM        float64   `json:"width_mm"`
	HeightMM       float64   `json:"height_mm"`
	Notes          string    `json:"notes"`
	FilePath       string    `json:"file_path,omitempty"`
	Status         string    `json:"status"`
	QuotedPrice    float64   `json:"quoted_price"`
	PrinterID      int       `json:"printer_id,omitempty"`
	RevisionCode   string    `json:"revision_code,omitempty"`
	OrderReference string    `json:"order_reference,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// QuoteStatusUpdate carries the quote fields persisted by a status
// transition.
type QuoteStatusUpdate struct {
	Status         string
	QuotedPrice    float64
	PrinterID      int
	RevisionCode   string
	OrderReference string
}

type CreateQuoteRequest struct {
	ProductID int     `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	WidthMM   float64 `json:"width_mm"`
	HeightMM  float64 `json:"height_mm"`
	Notes     string  `json:"notes"`
	FilePath  string  `json:"file_path"`
}

type UpdateQuoteStatusRequest struct {
	Status      string  `json:"status" binding:"required"`
	QuotedPrice float64 `json:"quoted_price"`
}
