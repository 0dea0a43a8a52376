package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// OSChannel opens links and drives the clipboard with the host platform's
// stock tools. Window focusing and keystroke injection are only available on
// Windows, mirroring where the desktop messaging application runs; elsewhere
// the assist path degrades to the unconditional paste attempt failing fast.
type OSChannel struct{}

func NewOSChannel() *OSChannel { return &OSChannel{} }

func (c *OSChannel) OpenDeepLink(link string) error { return openURL(link) }
func (c *OSChannel) OpenWebLink(link string) error  { return openURL(link) }

func openURL(link string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	case "darwin":
		cmd = exec.Command("open", link)
	default:
		cmd = exec.Command("xdg-open", link)
	}
	return cmd.Run()
}

func (c *OSChannel) Set(text string) error {
	switch runtime.GOOS {
	case "windows":
		cmd := exec.Command("cmd", "/c", "clip")
		in, err := cmd.StdinPipe()
		if err != nil {
			return err
		}
		if err := cmd.Start(); err != nil {
			return err
		}
		if _, err := in.Write([]byte(text)); err != nil {
			return err
		}
		if err := in.Close(); err != nil {
			return err
		}
		return cmd.Wait()
	case "darwin":
		cmd := exec.Command("pbcopy")
		cmd.Stdin = strings.NewReader(text)
		return cmd.Run()
	default:
		cmd := exec.Command("xclip", "-selection", "clipboard")
		cmd.Stdin = strings.NewReader(text)
		return cmd.Run()
	}
}

func (c *OSChannel) FocusWindow() bool {
	if runtime.GOOS != "windows" {
		return false
	}
	// Activate the first window whose title mentions WhatsApp.
	script := `$w = Get-Process | Where-Object { $_.MainWindowTitle -match 'WhatsApp' } | Select-Object -First 1; ` +
		`if ($w) { (New-Object -ComObject WScript.Shell).AppActivate($w.Id) } else { exit 1 }`
	return exec.Command("powershell", "-NoProfile", "-Command", script).Run() == nil
}

func (c *OSChannel) PasteAndConfirm(confirm bool) error {
	if runtime.GOOS != "windows" {
		return fmt.Errorf("keystroke injection not supported on %s", runtime.GOOS)
	}
	keys := "^v"
	if confirm {
		keys += "{ENTER}"
	}
	script := fmt.Sprintf(`(New-Object -ComObject WScript.Shell).SendKeys(%q)`, keys)
	return exec.Command("powershell", "-NoProfile", "-Command", script).Run()
}
