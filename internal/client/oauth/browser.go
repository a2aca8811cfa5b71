package oauth

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openBrowser launches the system browser at url.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	default:
		return fmt.Errorf("unsupported platform %q: open %s manually", runtime.GOOS, url)
	}
}
