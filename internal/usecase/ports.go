package usecase

import (
	"context"
	"errors"

	domain "github.com/megatonytrader/express-entregas-zap/internal/entity"
)

var ErrNotFound = errors.New("not found")

type OrderRepo interface {
	// Create writes the order and its item snapshots in one transaction.
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// ListAll returns orders newest first, items included.
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	OrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	// UpdateStatusIf performs a guarded transition; false means the row no
	// longer carried fromStatus (lost race or unknown order).
	UpdateStatusIf(ctx context.Context, id string, from, to domain.Status, reason string) (bool, error)
}

type CatalogRepo interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	ListAddOns(ctx context.Context) ([]domain.AddOn, error)
	CreateAddOn(ctx context.Context, a *domain.AddOn) error
	DeleteAddOn(ctx context.Context, id string) error

	// Product <-> add-on association; Set replaces the whole set.
	ProductAddOns(ctx context.Context, productID string) ([]domain.AddOn, error)
	SetProductAddOns(ctx context.Context, productID string, addOnIDs []string) error
}

// SettingsRepo is the storefront's key/value bag: company title, slogan,
// logo/favicon URLs, whatsapp number.
type SettingsRepo interface {
	Get(ctx context.Context, key string) (string, error)
	GetMany(ctx context.Context, keys []string) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}

// AdminAccount is a back-office login. Role gates the admin surface; only
// "admin" passes.
type AdminAccount struct {
	UserID       string
	Email        string
	PasswordHash string
	Role         string
}

type AccountRepo interface {
	GetByEmail(ctx context.Context, email string) (*AdminAccount, error)
	GetByID(ctx context.Context, userID string) (*AdminAccount, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	// Unlock releases a held lock so a failed submission can be retried
	// manually before the TTL expires.
	Unlock(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// OutboxRepo buffers change-feed events next to the order rows; a drainer
// publishes them to the feed and marks them sent. orderID becomes the
// partition key.
type OutboxRepo interface {
	InsertOrderChanged(ctx context.Context, orderID string, payload []byte) error
}

// RelayQueue is the one-way merchant notification port. No acknowledgment
// is awaited and no retry is designed around it.
type RelayQueue interface {
	PublishPlaced(ctx context.Context, msg OrderPlacedMsg) error
}

// BlobStore keeps product images, logos and favicons.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, overwrite bool) error
	PublicURL(path string) string
}
