package diag

import (
	"cmp"
	"slices"

	"fortio.org/safecast"
)

// Bag collects diagnostics of one run up to a limit.
type Bag struct {
	items []*Diagnostic
	max   uint16
}

const unlimited = 0xFFFF

// NewBag создаёт Bag с лимитом max; max <= 0 означает «без лимита».
func NewBag(max int) *Bag {
	limit := uint16(unlimited)
	if max > 0 {
		if v, err := safecast.Conv[uint16](max); err == nil {
			limit = v
		}
	}
	return &Bag{
		items: make([]*Diagnostic, 0, min(int(limit), 64)),
		max:   limit,
	}
}

// Add appends d unless the limit is reached; it reports whether d was kept.
// The first error is kept even over the limit: a fatal problem must not be
// hidden behind warnings reported before it.
func (b *Bag) Add(d *Diagnostic) bool {
	if d == nil {
		return false
	}
	if len(b.items) >= int(b.max) && (d.Severity < SevError || b.HasErrors()) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors reports whether any diagnostic is an error.
func (b *Bag) HasErrors() bool {
	return b.hasAtLeast(SevError)
}

// HasWarnings reports whether any diagnostic is a warning or worse.
func (b *Bag) HasWarnings() bool {
	return b.hasAtLeast(SevWarning)
}

// HasAtLeast reports whether any diagnostic reaches sev.
func (b *Bag) HasAtLeast(sev Severity) bool {
	return b.hasAtLeast(sev)
}

func (b *Bag) hasAtLeast(sev Severity) bool {
	if b == nil {
		return false
	}
	return slices.ContainsFunc(b.items, func(d *Diagnostic) bool { return d.Severity >= sev })
}

// Counts returns the number of errors and warnings.
func (b *Bag) Counts() (errors, warnings int) {
	if b == nil {
		return 0, 0
	}
	for _, d := range b.items {
		switch d.Severity {
		case SevError:
			errors++
		case SevWarning:
			warnings++
		}
	}
	return errors, warnings
}

func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Items возвращает внутренний срез: вызывающий не должен его менять.
func (b *Bag) Items() []*Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// Merge appends everything from other, raising the limit when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	total, err := safecast.Conv[uint16](len(b.items) + len(other.items))
	if err != nil {
		total = unlimited
	}
	b.max = max(b.max, total)
	room := int(b.max) - len(b.items)
	b.items = append(b.items, other.items[:min(room, len(other.items))]...)
}

// Sort orders by file, start, end, then severity (worst first) and code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y *Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
