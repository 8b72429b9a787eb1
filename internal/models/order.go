package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Order is a checkout transaction bundling products, mini-draw tickets
// and/or a membership purchase.
type Order struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID              primitive.ObjectID `bson:"userId" json:"userId"`
	OrderNumber         string             `bson:"orderNumber" json:"orderNumber"`
	Status              OrderStatus        `bson:"status" json:"status"`
	Items               []OrderItem        `bson:"items" json:"items"`
	MiniDrawTickets     []MiniDrawTicket   `bson:"miniDrawTickets,omitempty" json:"miniDrawTickets,omitempty"`
	MembershipPackageID string             `bson:"membershipPackageId,omitempty" json:"membershipPackageId,omitempty"`
	TotalAmount         float64            `bson:"totalAmount" json:"totalAmount"`
	PaymentIntentID     string             `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderItem is a shop product line.
type OrderItem struct {
	ProductID string  `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Price     float64 `bson:"price" json:"price"`
}

// MiniDrawTicket is a mini-draw package bought through checkout.
type MiniDrawTicket struct {
	MiniDrawID primitive.ObjectID `bson:"miniDrawId" json:"miniDrawId"`
	PackageID  string             `bson:"packageId" json:"packageId"`
	Entries    int                `bson:"entries" json:"entries"`
	Price      float64            `bson:"price" json:"price"`
}
