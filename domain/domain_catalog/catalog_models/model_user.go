package catalog_models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ClerkID   string             `bson:"clerkId" json:"clerkId"`
	FullName  string             `bson:"fullName" json:"fullName"`
	ImageURL  string             `bson:"imageUrl" json:"imageUrl"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// AuthCallbackInput 身份服务登录回调携带的用户资料
type AuthCallbackInput struct {
	ID        string `json:"id" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl"`
}

// Identity 经过身份服务校验的调用者
type Identity struct {
	UserID string
	Email  string
}
