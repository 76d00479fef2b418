package librarystore

const (
	defaultPageNumber = 1
	defaultPageSize   = 20
	MaxPageSize       = 100
)

// Page is a 1-based offset pagination window.
type Page struct {
	number int
	size   int
}

// BuildPage sanitizes the input: numbers below 1 become 1, sizes below 1 become the default size
// and sizes above MaxPageSize are capped.
func BuildPage(number, size int) Page {
	if number < 1 {
		number = defaultPageNumber
	}

	if size < 1 {
		size = defaultPageSize
	}

	if size > MaxPageSize {
		size = MaxPageSize
	}

	return Page{number: number, size: size}
}

// DefaultPage returns the first page with the default size.
func DefaultPage() Page {
	return Page{number: defaultPageNumber, size: defaultPageSize}
}

func (p Page) Number() int {
	return p.number
}

func (p Page) Size() int {
	return p.size
}

func (p Page) Offset() int {
	return (p.number - 1) * p.size
}

// TotalPages returns how many pages of this size are needed for total items.
func (p Page) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}

	return (total + p.size - 1) / p.size
}

func (p Page) HasNext(total int) bool {
	return p.number < p.TotalPages(total)
}

func (p Page) HasPrev() bool {
	return p.number > 1
}
