package cart

import "net/http"

const (
	// CookieName is the fixed cart cookie name.
	CookieName = "cart"
	// CookieMaxAge expires a cart 600 seconds after its last write.
	CookieMaxAge = 600
)

// FromRequest reconstructs the cart from the request's cookie. A missing
// or unreadable cookie is an empty cart.
func FromRequest(r *http.Request) Cart {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return Cart{}
	}
	return Decode(ck.Value)
}

// WriteCookie sets the cart cookie with the fixed policy: path /, max-age
// 600, no explicit domain.
func WriteCookie(w http.ResponseWriter, c Cart) {
	http.SetCookie(w, &http.Cookie{
		Name:   CookieName,
		Value:  Encode(c),
		Path:   "/",
		MaxAge: CookieMaxAge,
	})
}
