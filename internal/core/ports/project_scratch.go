package ports

import "github.com/quotemate/gateway/internal/core/domain"

// ProjectScratch holds volatile project references keyed by tab. It must not
// outlive the process.
type ProjectScratch interface {
	Get(key string) (domain.ProjectInfo, bool)
	Put(key string, info domain.ProjectInfo)
	Delete(key string)
}
