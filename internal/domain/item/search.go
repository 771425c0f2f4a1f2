package item

import "strings"

// SearchText — текст сущности, по которому работает поиск.
func SearchText(e Entity) string {
	var parts []string
	switch v := e.(type) {
	case *Note:
		parts = append(parts, v.Title, v.Content)
		for _, c := range v.Checklist {
			parts = append(parts, c.Text)
		}
	case *Reminder:
		parts = append(parts, v.Title, v.Description)
	case *Document:
		parts = append(parts, v.Title, v.Description, v.FileName)
		parts = append(parts, v.Tags...)
	case *URLBookmark:
		parts = append(parts, v.Title, v.URL, v.Category)
		parts = append(parts, v.Tags...)
	}
	return strings.Join(parts, "\n")
}

// Matches сообщает, содержит ли сущность запрос без учета регистра.
// Пустой запрос совпадает со всем.
func Matches(e Entity, q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(SearchText(e)), strings.ToLower(q))
}
