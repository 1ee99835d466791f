package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// dateStyles decides whether a numeric cell holds a date from the number
// format of its style. Results are cached per style index.
type dateStyles struct {
	f        *excelize.File
	date1904 bool
	byStyle  map[int]bool
}

func newDateStyles(f *excelize.File) *dateStyles {
	d := &dateStyles{f: f, byStyle: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// isDate reports whether the cell is formatted as a date or time.
func (d *dateStyles) isDate(sheet, cell string) bool {
	id, err := d.f.GetCellStyle(sheet, cell)
	if err != nil {
		return false
	}
	if v, ok := d.byStyle[id]; ok {
		return v
	}
	style, err := d.f.GetStyle(id)
	v := err == nil && isDateStyle(style)
	d.byStyle[id] = v
	return v
}

func isDateStyle(s *excelize.Style) bool {
	if s == nil {
		return false
	}
	if s.CustomNumFmt != nil {
		return isDateFormatCode(*s.CustomNumFmt)
	}
	return isBuiltInDateFormat(s.NumFmt)
}

// isBuiltInDateFormat reports whether a built-in number format id renders a
// date or time (14-22 and 45-47).
func isBuiltInDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

// isDateFormatCode reports whether a custom format code has date or time
// tokens outside quoted literals, bracketed sections and escapes. Only the
// first section (positive numbers) is inspected.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			if c == ']' {
				inBracket = false
			}
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\', c == '_', c == '*':
			i++
		case c == ';':
			return false
		default:
			if strings.IndexByte("dDmMyYhHsS", c) >= 0 {
				return true
			}
		}
	}
	return false
}
