package event

const (
	TopicProductCreated = "product.created"
	TopicProductUpdated = "product.updated"
	TopicProductDeleted = "product.deleted"
)

type ProductCreatedEvent struct {
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

type ProductUpdatedEvent struct {
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

// ProductDeletedEvent covers both single deletes and catalog purges. A purge
// carries no ProductID and a Purged count instead.
type ProductDeletedEvent struct {
	ProductID *int64 `json:"product_id,omitempty"`
	Purged    *int64 `json:"purged,omitempty"`
}
