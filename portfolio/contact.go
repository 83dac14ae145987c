package portfolio

import "strings"

const upperhex = "0123456789ABCDEF"

// ComposeMailLink builds the mailto link the contact form opens. Subject and
// body are percent-encoded with spaces as %20.
func ComposeMailLink(to, name, email, message string) string {
	subject := "Portfolio Contact from " + name
	body := "Name: " + name + "\nEmail: " + email + "\n\nMessage:\n" + message
	return "mailto:" + to + "?subject=" + EncodeComponent(subject) + "&body=" + EncodeComponent(body)
}

// EncodeComponent escapes every byte outside A-Z a-z 0-9 and - _ . ! ~ * ' ( ).
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
