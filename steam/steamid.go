package steam

import "regexp"

var (
	steamIDPattern   = regexp.MustCompile(`^\d{17}$`)
	steamIDParam     = regexp.MustCompile(`steamid=(\d{17})`)
	profileURLPrefix = regexp.MustCompile(`/profiles/(\d{17})`)
)

// IsSteamID reports whether s is a bare 17-digit Steam ID.
func IsSteamID(s string) bool {
	return steamIDPattern.MatchString(s)
}

// ParseSteamID extracts a 17-digit Steam ID from s. Accepted forms:
//
//	76561197960287930
//	https://example.com/?steamid=76561197960287930
//	https://steamcommunity.com/profiles/76561197960287930/
//
// Custom vanity names (/id/<name>) need a ResolveVanityURL call and are not
// accepted here.
func ParseSteamID(s string) (string, bool) {
	if IsSteamID(s) {
		return s, true
	}
	if m := steamIDParam.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := profileURLPrefix.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}
