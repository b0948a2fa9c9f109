package converter

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
// Цены читаются как текст (price::text), чтобы не терять точность numeric.
type ProductModel struct {
	ID          uuid.UUID  `db:"id"`
	CategoryID  *uuid.UUID `db:"category_id"`
	Name        string     `db:"name"`
	Description string     `db:"description"`
	Price       string     `db:"price"`
	OfferPrice  *string    `db:"offer_price"`
	Images      []string   `db:"images"`
	Tags        []string   `db:"tags"`
	Status      string     `db:"status"`
	CreatedBy   uuid.UUID  `db:"created_by"`
	ApprovedBy  *uuid.UUID `db:"approved_by"`
	ApprovedAt  *time.Time `db:"approved_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
	CreatorName *string    `db:"creator_name"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Slug         string    `db:"slug"`
	Description  *string   `db:"description"`
	DisplayOrder int       `db:"display_order"`
	CreatedAt    time.Time `db:"created_at"`
}

// FeaturedItemModel представляет запись таблицы featured_items в PostgreSQL.
type FeaturedItemModel struct {
	ID           uuid.UUID  `db:"id"`
	ProductID    *uuid.UUID `db:"product_id"`
	Title        string     `db:"title"`
	Subtitle     *string    `db:"subtitle"`
	ImageURL     *string    `db:"image_url"`
	Type         string     `db:"type"`
	DisplayOrder int        `db:"display_order"`
	IsActive     bool       `db:"is_active"`
	CreatedAt    time.Time  `db:"created_at"`
}

// ProfileModel представляет запись таблицы profiles в PostgreSQL.
type ProfileModel struct {
	ID        uuid.UUID `db:"id"`
	FullName  string    `db:"full_name"`
	Phone     *string   `db:"phone"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// UserModel представляет запись таблицы users в PostgreSQL.
type UserModel struct {
	ID                uuid.UUID `db:"id"`
	Email             string    `db:"email"`
	PasswordHash      []byte    `db:"password_hash"`
	FullName          string    `db:"full_name"`
	Phone             *string   `db:"phone"`
	EmailConfirmed    bool      `db:"email_confirmed"`
	ConfirmationToken *string   `db:"confirmation_token"`
	CreatedAt         time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64          `db:"id"`
	EventID     uuid.UUID      `db:"event_id"`
	EventType   string         `db:"event_type"`
	AggregateID uuid.UUID      `db:"aggregate_id"`
	ActorID     uuid.UUID      `db:"actor_id"`
	Payload     map[string]any `db:"payload"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	ProcessedAt *time.Time     `db:"processed_at"`
}
