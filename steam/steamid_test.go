package steam_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ddevcap/steam-profile-api/steam"
)

var _ = Describe("ParseSteamID", func() {
	DescribeTable("accepted forms",
		func(input, want string) {
			got, ok := steam.ParseSteamID(input)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(want))
		},
		Entry("bare id", "76561197960287930", "76561197960287930"),
		Entry("steamid query param", "https://example.com/?steamid=76561197960287930&x=1", "76561197960287930"),
		Entry("profiles URL", "https://steamcommunity.com/profiles/76561197960287930/", "76561197960287930"),
	)

	DescribeTable("rejected forms",
		func(input string) {
			_, ok := steam.ParseSteamID(input)
			Expect(ok).To(BeFalse())
		},
		Entry("too short", "7656119796028793"),
		Entry("letters", "7656119796028793x"),
		Entry("vanity URL", "https://steamcommunity.com/id/gabelogannewell"),
		Entry("empty", ""),
	)

	It("IsSteamID only matches bare ids", func() {
		Expect(steam.IsSteamID("76561197960287930")).To(BeTrue())
		Expect(steam.IsSteamID("/profiles/76561197960287930")).To(BeFalse())
	})
})
