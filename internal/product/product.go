// Package product holds the names and URLs the installer presents or calls.
package product

import "fmt"

// Name is shown in the window title and header.
const Name = "BandagedBD"

// ExecutableName is the release asset downloaded when an update is accepted.
const ExecutableName = "BandagedBD.exe"

// Homepage is the project page opened from the header logo.
const Homepage = "https://github.com/rauenzi/BetterDiscordApp"

// DonateURL is the donation page linked from the footer.
const DonateURL = "https://paypal.me/ZackRauen"

// DefaultUserAgent is sent with every GitHub API request.
const DefaultUserAgent = "BBDInstaller"

const (
	DefaultUpdateOwner = "rauenzi"
	DefaultUpdateRepo  = "BBDInstaller"
)

// DefaultPayloadURL is the injector archive installed into Discord.
const DefaultPayloadURL = "https://github.com/rauenzi/BetterDiscordApp/archive/injector.zip"

// LatestReleaseURL returns the GitHub API endpoint for the newest release of owner/repo.
func LatestReleaseURL(owner, repo string) string {
	return fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/latest", owner, repo)
}

// DownloadURL returns the release asset URL for tag.
func DownloadURL(owner, repo, tag string) string {
	return fmt.Sprintf("https://github.com/%s/%s/releases/download/%s/%s", owner, repo, tag, ExecutableName)
}

// Tag turns a bare version ("1.2.3") into the release tag form ("v1.2.3").
func Tag(version string) string {
	if len(version) > 0 && version[0] == 'v' {
		return version
	}
	return "v" + version
}
