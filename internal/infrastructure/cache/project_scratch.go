package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/quotemate/gateway/internal/core/domain"
)

const (
	DefaultScratchSize = 10_000
	DefaultScratchTTL  = 2 * time.Hour
)

// ProjectScratch keeps the current project per browser tab in process
// memory. Entries expire and the least recently used are evicted first.
type ProjectScratch struct {
	lru *expirable.LRU[string, domain.ProjectInfo]
}

func NewProjectScratch(size int, ttl time.Duration) *ProjectScratch {
	if size <= 0 {
		size = DefaultScratchSize
	}
	if ttl <= 0 {
		ttl = DefaultScratchTTL
	}
	return &ProjectScratch{lru: expirable.NewLRU[string, domain.ProjectInfo](size, nil, ttl)}
}

func (p *ProjectScratch) Get(key string) (domain.ProjectInfo, bool) {
	return p.lru.Get(key)
}

func (p *ProjectScratch) Put(key string, info domain.ProjectInfo) {
	p.lru.Add(key, info)
}

func (p *ProjectScratch) Delete(key string) {
	p.lru.Remove(key)
}

func (p *ProjectScratch) Len() int {
	return p.lru.Len()
}
