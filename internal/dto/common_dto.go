package dto

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Envelope wraps every successful response body.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func OK(data any) Envelope { return Envelope{Success: true, Data: data} }

// Page is the pagination part of every list filter.
type Page struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// Normalize clamps page/limit into the accepted range.
func (p *Page) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > MaxPageLimit {
		p.Limit = DefaultPageLimit
	}
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// TotalPages rounds up.
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
