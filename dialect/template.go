package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// Element is one piece of a parsed template: literal text or an operand slot.
type Element struct {
	// Text is the literal text of a text element.
	Text string
	// Slot is the operand index of a slot element, or -1 for text.
	Slot int
	// Rest renders operands Slot.. joined by the dialect's list separator.
	Rest bool
	// LeadingWildcard and TrailingWildcard add LIKE wildcards around the operand.
	LeadingWildcard  bool
	TrailingWildcard bool
}

// IsSlot reports whether the element is an operand slot.
func (e Element) IsSlot() bool { return e.Slot >= 0 }

// Template is a parsed rendering pattern for an operator.
//
// Syntax: literal text with operand slots in braces. {n} renders operand n,
// {n*} renders operands n onward as a list, {n%}, {%n} and {%n%} render
// operand n with LIKE wildcards appended, prepended or both. {{ and }} are
// literal braces.
type Template struct {
	pattern  string
	elements []Element
}

// ParseTemplate parses a template pattern.
func ParseTemplate(pattern string) (Template, error) {
	var (
		elements []Element
		text     strings.Builder
	)

	flush := func() {
		if text.Len() > 0 {
			elements = append(elements, Element{Text: text.String(), Slot: -1})
			text.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '{':
			if i+1 < len(pattern) && pattern[i+1] == '{' {
				text.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(pattern[i:], '}')
			if end < 0 {
				return Template{}, fmt.Errorf("template %q: unterminated slot at offset %d", pattern, i)
			}
			el, err := parseSlot(pattern[i+1 : i+end])
			if err != nil {
				return Template{}, fmt.Errorf("template %q: %w", pattern, err)
			}
			flush()
			elements = append(elements, el)
			i += end
		case '}':
			if i+1 < len(pattern) && pattern[i+1] == '}' {
				text.WriteByte('}')
				i++
				continue
			}
			return Template{}, fmt.Errorf("template %q: unmatched '}' at offset %d", pattern, i)
		default:
			text.WriteByte(c)
		}
	}
	flush()

	return Template{pattern: pattern, elements: elements}, nil
}

func parseSlot(body string) (Element, error) {
	el := Element{}
	if strings.HasPrefix(body, "%") {
		el.LeadingWildcard = true
		body = body[1:]
	}
	switch {
	case strings.HasSuffix(body, "*"):
		el.Rest = true
		body = body[:len(body)-1]
	case strings.HasSuffix(body, "%"):
		el.TrailingWildcard = true
		body = body[:len(body)-1]
	}
	if el.Rest && el.LeadingWildcard {
		return Element{}, fmt.Errorf("slot {%%%s*}: list and wildcard forms cannot be combined", body)
	}

	n, err := strconv.Atoi(body)
	if err != nil || n < 0 || strings.HasPrefix(body, "+") {
		return Element{}, fmt.Errorf("invalid slot index %q", body)
	}
	el.Slot = n
	return el, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(pattern string) Template {
	t, err := ParseTemplate(pattern)
	if err != nil {
		panic(err)
	}
	return t
}

// Pattern returns the source pattern.
func (t Template) Pattern() string { return t.pattern }

// Elements returns the parsed elements in order.
func (t Template) Elements() []Element {
	out := make([]Element, len(t.elements))
	copy(out, t.elements)
	return out
}

// Len returns the number of elements.
func (t Template) Len() int { return len(t.elements) }

// At returns the element at index i.
func (t Template) At(i int) Element { return t.elements[i] }

// MaxSlot returns the highest operand index referenced, or -1 if none.
func (t Template) MaxSlot() int {
	maxSlot := -1
	for _, el := range t.elements {
		if el.IsSlot() && el.Slot > maxSlot {
			maxSlot = el.Slot
		}
	}
	return maxSlot
}

// upper returns a copy with every text element uppercased.
func (t Template) upper() Template {
	out := Template{pattern: t.pattern, elements: make([]Element, len(t.elements))}
	for i, el := range t.elements {
		if !el.IsSlot() {
			el.Text = strings.ToUpper(el.Text)
		}
		out.elements[i] = el
	}
	return out
}

func (t Template) String() string { return t.pattern }
