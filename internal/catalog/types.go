package catalog

// Default EAV table names, before any table prefix is applied.
const (
	AttributeTable       = "eav_attribute"
	EntityTypeTable      = "eav_entity_type"
	OptionTable          = "eav_attribute_option"
	ProductIntValueTable = "catalog_product_entity_int"

	// ProductEntityTypeCode scopes attribute codes to products.
	ProductEntityTypeCode = "catalog_product"
)

// Column names used by the pruner
const (
	ColAttributeID    = "attribute_id"
	ColAttributeCode  = "attribute_code"
	ColEntityTypeID   = "entity_type_id"
	ColEntityTypeCode = "entity_type_code"
	ColOptionID       = "option_id"
	ColValue          = "value"
)

// AttributeID is the authoritative key of an attribute
type AttributeID = int64

// OptionID is the key of an attribute option
type OptionID = int64

// Attribute represents a catalog attribute definition
type Attribute struct {
	ID             AttributeID
	Code           string
	EntityTypeCode string
}

// Report describes the outcome of pruning one attribute
type Report struct {
	AttributeCode   string      `json:"attribute_code"`
	AttributeID     AttributeID `json:"attribute_id"`
	DefinedCount    int         `json:"defined_count"`
	ReferencedCount int         `json:"referenced_count"`
	UnusedOptionIDs []OptionID  `json:"unused_option_ids"`
	Deleted         int         `json:"deleted"`
	RowsAffected    int64       `json:"rows_affected"`
	DryRun          bool        `json:"dry_run"`
}
