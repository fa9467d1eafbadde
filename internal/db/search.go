package db

// KNNQuery is the input for vector similarity search against one knowledge
// domain. TenantTag is mandatory: every chunk row carries a tenant_id tag
// (the owning tenant's uuid, or the shared-corpus tag), so a query can never
// cross domains.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Vector       []float32
	TenantTag    string
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Score is cosine similarity in [0,1].
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
