package print

// Item is a materialized view of an order line for receipt formatting.
type Item struct {
	ProductNumber string `json:"product_number"`
	ProductName   string `json:"product_name"`
	OptionDetails string `json:"option_details"`
	OptionText    string `json:"option_text"`
}

// Job is an ephemeral per-station bundle of items for one table. Jobs are
// constructed per dispatch and never persisted.
type Job struct {
	Station string
	Table   string
	Items   []Item
}
