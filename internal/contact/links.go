package contact

import (
	"fmt"
	"net/url"
)

// Contact channels a client can request a link for.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelCall     = "llamada"
	ChannelShare    = "compartir"
)

// WhatsAppLink builds a wa.me deep link for an already-normalized number
// (country code included, digits only).
func WhatsAppLink(number, message string) string {
	u := url.URL{Scheme: "https", Host: "wa.me", Path: "/" + number}
	if message != "" {
		q := url.Values{}
		q.Set("text", message)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// CallLink builds a tel: URI with the international prefix.
func CallLink(number string) string {
	return "tel:+" + number
}

// ShareLink builds a Facebook sharer URL pointing at the public page of a
// post or profile, with an optional quote shown alongside the link.
func ShareLink(publicBaseURL, path, quote string) string {
	target := fmt.Sprintf("%s%s", publicBaseURL, path)
	q := url.Values{}
	q.Set("u", target)
	if quote != "" {
		q.Set("quote", quote)
	}
	return "https://www.facebook.com/sharer/sharer.php?" + q.Encode()
}
