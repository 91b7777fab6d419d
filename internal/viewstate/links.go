package viewstate

import (
	"net/url"
	"strings"
)

// RentalSearchURL возвращает ссылку поиска проката в Google.
func RentalSearchURL(name, to string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(name) + "+rental+" + url.QueryEscape(to)
}

// MapEmbedURL возвращает адрес встроенной карты Google Maps.
func MapEmbedURL(to string) string {
	return "https://maps.google.com/maps?q=" + encodeURIComponent(to) + "&t=&z=13&ie=UTF8&iwloc=&output=embed"
}

// RentalIcon выбирает значок по типу транспорта.
func RentalIcon(rentalType string) string {
	if rentalType == "Car" {
		return "🚘"
	}
	return "🛵"
}

// encodeURIComponent кодирует пробел как %20, а не как +.
func encodeURIComponent(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "+", "%20")
}
