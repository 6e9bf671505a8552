package backend

import "carrental/internal/session"

// Car statuses
const (
	CarAvailable   = "AVAILABLE"
	CarRented      = "RENTED"
	CarMaintenance = "MAINTENANCE"
)

// Reservation statuses
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
)

// Rental statuses
const (
	RentalPickedUp = "PICKED_UP"
	RentalReturned = "RETURNED"
	RentalOverdue  = "OVERDUE"
)

// Car is a vehicle of the catalog
type Car struct {
	ID               int64   `json:"id"`
	Brand            string  `json:"brand"`
	Model            string  `json:"model"`
	Year             int     `json:"year"`
	Plate            string  `json:"plate"`
	Description      string  `json:"description,omitempty"`
	DailyPrice       float64 `json:"dailyPrice"`
	Status           string  `json:"status"`
	ImageURL         string  `json:"imageUrl,omitempty"`
	FuelType         string  `json:"fuelType,omitempty"`
	TransmissionType string  `json:"transmissionType,omitempty"`
	SeatCount        int     `json:"seatCount,omitempty"`
	CategoryID       int64   `json:"categoryId"`
	CategoryName     string  `json:"categoryName,omitempty"`
}

// CarInput is the payload of car create and update
type CarInput struct {
	Brand            string  `json:"brand" form:"brand" binding:"required"`
	Model            string  `json:"model" form:"model" binding:"required"`
	Year             int     `json:"year" form:"year" binding:"required,gte=1900"`
	Plate            string  `json:"plate" form:"plate" binding:"required"`
	Description      string  `json:"description" form:"description"`
	DailyPrice       float64 `json:"dailyPrice" form:"dailyPrice" binding:"required,gt=0"`
	Status           string  `json:"status" form:"status" binding:"required,oneof=AVAILABLE RENTED MAINTENANCE"`
	ImageURL         string  `json:"imageUrl" form:"imageUrl" binding:"omitempty,url"`
	FuelType         string  `json:"fuelType" form:"fuelType"`
	TransmissionType string  `json:"transmissionType" form:"transmissionType"`
	SeatCount        int     `json:"seatCount" form:"seatCount" binding:"omitempty,gte=1"`
	CategoryID       int64   `json:"categoryId" form:"categoryId" binding:"required"`
}

// Category groups cars
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryInput is the payload of category create and update
type CategoryInput struct {
	Name        string `json:"name" form:"name" binding:"required"`
	Description string `json:"description" form:"description"`
}

// Reservation is a customer's request to rent a car for a period
type Reservation struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"userId"`
	UserName   string  `json:"userName,omitempty"`
	CarID      int64   `json:"carId"`
	CarBrand   string  `json:"carBrand,omitempty"`
	CarModel   string  `json:"carModel,omitempty"`
	CarPlate   string  `json:"carPlate,omitempty"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes,omitempty"`
	CreatedAt  string  `json:"createdAt,omitempty"`
}

// ReservationInput is the payload of reservation create
type ReservationInput struct {
	CarID     int64  `json:"carId"`
	StartDate string `json:"startDate" form:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" form:"endDate" binding:"required,datetime=2006-01-02"`
	Notes     string `json:"notes" form:"notes"`
}

// Rental is the hand-over of a car for a confirmed reservation
type Rental struct {
	ID                int64   `json:"id"`
	ReservationID     int64   `json:"reservationId"`
	UserName          string  `json:"userName,omitempty"`
	CarBrand          string  `json:"carBrand,omitempty"`
	CarModel          string  `json:"carModel,omitempty"`
	CarPlate          string  `json:"carPlate,omitempty"`
	PickupDate        string  `json:"pickupDate,omitempty"`
	ReturnDate        string  `json:"returnDate,omitempty"`
	InitialMileage    int     `json:"initialMileage"`
	FinalMileage      int     `json:"finalMileage,omitempty"`
	AdditionalCharges float64 `json:"additionalCharges,omitempty"`
	TotalAmount       float64 `json:"totalAmount,omitempty"`
	Status            string  `json:"status"`
	Notes             string  `json:"notes,omitempty"`
}

// RentalInput is the payload of rental create
type RentalInput struct {
	ReservationID  int64  `json:"reservationId" form:"reservationId" binding:"required"`
	InitialMileage int    `json:"initialMileage" form:"initialMileage" binding:"gte=0"`
	Notes          string `json:"notes" form:"notes"`
}

// ReturnInput is the payload of a car return
type ReturnInput struct {
	FinalMileage      int     `json:"finalMileage" form:"finalMileage" binding:"gte=0"`
	AdditionalCharges float64 `json:"additionalCharges" form:"additionalCharges" binding:"gte=0"`
}

// User is the backend's user record. It shares its shape with the cached
// session profile.
type User = session.UserProfile

// UserInput is the payload of user and profile updates. An empty password is
// omitted so the backend keeps the current one.
type UserInput struct {
	Name          string `json:"name,omitempty" form:"name" binding:"required"`
	Phone         string `json:"phone,omitempty" form:"phone"`
	Address       string `json:"address,omitempty" form:"address"`
	DriverLicense string `json:"driverLicense,omitempty" form:"driverLicense"`
	Password      string `json:"password,omitempty" form:"password" binding:"omitempty,min=6"`
}

// Credentials is the login payload
type Credentials struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Registration is the register payload
type Registration struct {
	Name          string `json:"name" form:"name" binding:"required"`
	Email         string `json:"email" form:"email" binding:"required,email"`
	Password      string `json:"password" form:"password" binding:"required,min=6"`
	Phone         string `json:"phone" form:"phone" binding:"required"`
	Address       string `json:"address" form:"address" binding:"required"`
	DriverLicense string `json:"driverLicense,omitempty" form:"driverLicense"`
}

// AuthData is the data of a successful login or registration
type AuthData struct {
	Token string               `json:"token"`
	Type  string               `json:"type,omitempty"`
	User  *session.UserProfile `json:"user"`
}

// ExchangeRate is the answer of the currency rate endpoint
type ExchangeRate struct {
	From string  `json:"from,omitempty"`
	To   string  `json:"to,omitempty"`
	Rate float64 `json:"rate"`
}

// Conversion is the answer of the currency convert endpoint
type Conversion struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	Amount          float64 `json:"amount"`
	ConvertedAmount float64 `json:"convertedAmount"`
	Rate            float64 `json:"rate"`
}

// ExchangeRates is the answer of the currency rates endpoint
type ExchangeRates struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}
