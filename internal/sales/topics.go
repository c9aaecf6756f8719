package sales

const (
	TopicProductChanged     = "kasir.product.changed"
	TopicTransactionCreated = "kasir.transaction.created"
)

// Partition key keeps all events of one entity in order.
func PartitionKey(id string) []byte { return []byte(id) }
