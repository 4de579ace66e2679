package wizard

import "github.com/peterkacmarik/dockify/internal/model"

// PageItem is one preview row with its absolute position and any
// validation errors recorded by the last confirmation.
type PageItem struct {
	Row    int             `json:"row"`
	Item   model.OrderItem `json:"item"`
	Errors []string        `json:"errors,omitempty"`
}

// Page is one slice of the preview item list.
type Page struct {
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalItems int        `json:"totalItems"`
	TotalPages int        `json:"totalPages"`
	Items      []PageItem `json:"items"`
	Duplicates []string   `json:"duplicates,omitempty"`
}

// PreviewPage returns one page of transformed items. Out-of-range pages
// clamp to the nearest valid page; the requested page becomes the
// session's current page.
func (s *Session) PreviewPage(page, limit int) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepPreview {
		return Page{}, ErrWrongStep
	}
	if limit <= 0 {
		limit = 1
	}

	total := len(s.items)
	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	s.page = page

	start := (page - 1) * limit
	end := start + limit
	if end > total {
		end = total
	}

	items := make([]PageItem, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, PageItem{
			Row:    i,
			Item:   s.items[i],
			Errors: s.rowErrors[i],
		})
	}

	return Page{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
		Items:      items,
		Duplicates: append([]string(nil), s.duplicates...),
	}, nil
}
