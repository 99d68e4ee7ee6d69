package cdn_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ddevcap/steam-profile-api/cdn"
)

var _ = Describe("Game images", func() {
	It("builds community image URLs from hashes", func() {
		Expect(cdn.GameIcon(570, "0bbb630d")).To(Equal(
			"https://media.steampowered.com/steamcommunity/public/images/apps/570/0bbb630d.jpg"))
		Expect(cdn.GameLogo(570, "d4f836839")).To(Equal(
			"https://media.steampowered.com/steamcommunity/public/images/apps/570/d4f836839.png"))
	})

	It("returns empty strings for missing hashes", func() {
		Expect(cdn.GameIcon(570, "")).To(BeEmpty())
		Expect(cdn.GameLogo(570, "")).To(BeEmpty())
	})

	It("builds store asset URLs from the app id alone", func() {
		Expect(cdn.GameHeader(440)).To(Equal("https://cdn.cloudflare.steamstatic.com/steam/apps/440/header.jpg"))
		Expect(cdn.GameHero(440)).To(Equal("https://cdn.cloudflare.steamstatic.com/steam/apps/440/hero.jpg"))
		Expect(cdn.GameLibraryHero(440)).To(Equal("https://cdn.cloudflare.steamstatic.com/steam/apps/440/library_hero.jpg"))
	})
})

var _ = Describe("AchievementIcon", func() {
	It("rebuilds schema icon URLs without doubling the extension", func() {
		ref := "https://steamcdn-a.akamaihd.net/steamcommunity/public/images/apps/440/achievements/tf_play_game.jpg"
		Expect(cdn.AchievementIcon(440, ref)).To(Equal(
			"https://media.steampowered.com/steamcommunity/public/images/apps/440/achievements/tf_play_game.jpg"))
	})

	It("accepts a bare hash", func() {
		Expect(cdn.AchievementIcon(440, "abc")).To(HaveSuffix("/440/achievements/abc.jpg"))
	})

	It("returns an empty string for an empty reference", func() {
		Expect(cdn.AchievementIcon(440, "")).To(BeEmpty())
	})
})

var _ = Describe("UserAvatar", func() {
	It("appends the size suffix", func() {
		Expect(cdn.UserAvatar("fef49e7f", cdn.AvatarSmall)).To(Equal("https://avatars.steamstatic.com/fef49e7f_small.jpg"))
		Expect(cdn.UserAvatar("fef49e7f", cdn.AvatarMedium)).To(Equal("https://avatars.steamstatic.com/fef49e7f_medium.jpg"))
		Expect(cdn.UserAvatar("fef49e7f", cdn.AvatarFull)).To(Equal("https://avatars.steamstatic.com/fef49e7f_full.jpg"))
	})

	It("returns an empty string without a hash", func() {
		Expect(cdn.UserAvatar("", cdn.AvatarFull)).To(BeEmpty())
	})
})

var _ = DescribeTable("Hash",
	func(ref, want string) {
		Expect(cdn.Hash(ref)).To(Equal(want))
	},
	Entry("full URL", "https://cdn.example.com/apps/1/achievements/abc123.jpg", "abc123"),
	Entry("URL with query", "https://cdn.example.com/a/abc123.jpg?t=1", "abc123"),
	Entry("file name", "abc123.jpg", "abc123"),
	Entry("bare hash", "abc123", "abc123"),
	Entry("empty", "", ""),
)
