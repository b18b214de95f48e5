package service

import (
	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

// ProjectContexts hands out ProjectContexts over a shared scratch store.
type ProjectContexts struct {
	scratch ports.ProjectScratch
}

func NewProjectContexts(scratch ports.ProjectScratch) *ProjectContexts {
	return &ProjectContexts{scratch: scratch}
}

// For returns the context for one tab of one browser session.
func (p *ProjectContexts) For(scope domain.Scope, tab string) *ProjectContext {
	key := scope.Client + ":" + scope.BrowserSession
	if tab != "" {
		key += ":" + tab
	}
	return &ProjectContext{scratch: p.scratch, key: key}
}

// ProjectContext bridges the upload flow and the RFQ flow. It is volatile.
type ProjectContext struct {
	scratch ports.ProjectScratch
	key     string
}

// SetProjectInfo replaces the current project wholesale. Fields missing
// from info end up empty.
func (c *ProjectContext) SetProjectInfo(info domain.ProjectInfo) {
	if info.Empty() {
		c.scratch.Delete(c.key)
		return
	}
	c.scratch.Put(c.key, domain.ProjectInfo{
		ProjectID:   info.ProjectID,
		ProjectData: info.ProjectData,
	})
}

// Clear forgets the current project.
func (c *ProjectContext) Clear() {
	c.scratch.Delete(c.key)
}

// Current returns the current project; the zero value when none is set.
func (c *ProjectContext) Current() domain.ProjectInfo {
	info, ok := c.scratch.Get(c.key)
	if !ok {
		return domain.ProjectInfo{}
	}
	return info
}
