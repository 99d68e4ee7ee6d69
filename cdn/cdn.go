// Package cdn builds the public image URLs Steam serves for apps,
// achievements and avatars.
//
// Web API responses only carry image hashes (or, for achievements, full URLs
// that move between CDN hosts), so every image in an aggregated response is
// rebuilt here from the app id and the hash:
//
//	GameIcon(570, "0bbb630d")  → https://media.steampowered.com/steamcommunity/public/images/apps/570/0bbb630d.jpg
//	GameHeader(570)            → https://cdn.cloudflare.steamstatic.com/steam/apps/570/header.jpg
package cdn

import (
	"path"
	"strconv"
	"strings"
)

const (
	communityImages = "https://media.steampowered.com/steamcommunity/public/images/apps"
	storeAssets     = "https://cdn.cloudflare.steamstatic.com/steam/apps"
	avatars         = "https://avatars.steamstatic.com"
)

// GameIcon returns the small library icon. Returns an empty string if hash
// is empty.
func GameIcon(appID int, hash string) string {
	if hash == "" {
		return ""
	}
	return communityImages + "/" + strconv.Itoa(appID) + "/" + hash + ".jpg"
}

// GameLogo returns the library logo. Returns an empty string if hash is empty.
func GameLogo(appID int, hash string) string {
	if hash == "" {
		return ""
	}
	return communityImages + "/" + strconv.Itoa(appID) + "/" + hash + ".png"
}

// GameHeader returns the 460x215 store header capsule.
func GameHeader(appID int) string {
	return storeAsset(appID, "header.jpg")
}

func GameHero(appID int) string {
	return storeAsset(appID, "hero.jpg")
}

func GameLibraryHero(appID int) string {
	return storeAsset(appID, "library_hero.jpg")
}

// AchievementIcon returns the achievement image for ref, which may be a bare
// hash or a full URL as found in the game schema. Locked and unlocked icons
// use the same template with different hashes.
func AchievementIcon(appID int, ref string) string {
	hash := Hash(ref)
	if hash == "" {
		return ""
	}
	return communityImages + "/" + strconv.Itoa(appID) + "/achievements/" + hash + ".jpg"
}

// Avatar sizes accepted by UserAvatar.
const (
	AvatarSmall  = "small"
	AvatarMedium = "medium"
	AvatarFull   = "full"
)

// UserAvatar returns the avatar for hash at the given size.
func UserAvatar(hash, size string) string {
	if hash == "" {
		return ""
	}
	return avatars + "/" + hash + "_" + size + ".jpg"
}

// Hash reduces an image reference to its bare hash:
//
//	"https://cdn.akamai.steamstatic.com/.../achievements/abc123.jpg" → "abc123"
//	"abc123.jpg" → "abc123"
//	"abc123"     → "abc123"
func Hash(ref string) string {
	if ref == "" {
		return ""
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	base := path.Base(ref)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

func storeAsset(appID int, file string) string {
	return storeAssets + "/" + strconv.Itoa(appID) + "/" + file
}
