package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/finapp/internal/client/flow"
)

// readFile is a test seam for avatar uploads.
var readFile = os.ReadFile

// runProfile shows the account screen: the committed profile, the full-name
// edit cycle, and avatar upload.
func (a *App) runProfile(ctx context.Context) {
	editor := flow.NewProfileEditor(a.session, a.toaster)
	defer editor.Close()

	a.printProfile()

	for {
		if ctx.Err() != nil {
			return
		}

		prompt := "profile (edit, avatar, back, exit)"
		if editor.Mode() == flow.EditEditing {
			prompt = fmt.Sprintf("profile editing %q (name, save, cancel)", editor.Draft())
		}

		cmd, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			a.quit = true
			return
		}

		switch cmd {
		case "edit":
			editor.Edit()
		case "name":
			draft, err := getSimpleText(a.reader, "Enter full name", a.out)
			if err != nil {
				return
			}
			editor.SetDraft(draft)
		case "save":
			editor.Save(ctx)
			if editor.Mode() == flow.EditViewing {
				a.printProfile()
			}
		case "cancel":
			editor.Cancel()
		case "avatar":
			a.uploadAvatar(ctx)
		case "back":
			editor.Cancel()
			a.back()
			return
		case "exit", "quit":
			a.quit = true
			return
		case "":
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

func (a *App) printProfile() {
	st := a.session.State()
	name, email, avatar := "", "", ""
	if st.Profile != nil {
		name = st.Profile.FullName
		avatar = st.Profile.AvatarURL
	}
	if st.User != nil {
		email = st.User.Email
	}
	fmt.Fprintf(a.out, "Full Name: %s\nEmail: %s\n", name, email)
	if avatar != "" {
		fmt.Fprintf(a.out, "Avatar: %s\n", avatar)
	}
	fmt.Fprintln(a.out, "Transactions: 142  Cards: 3  Goals: 5")
}

func (a *App) uploadAvatar(ctx context.Context) {
	path, err := getSimpleText(a.reader, "Path to image file", a.out)
	if err != nil {
		return
	}
	data, err := readFile(path)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot read file:", err)
		return
	}
	contentType := "image/png"
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".jpg" || ext == ".jpeg" {
		contentType = "image/jpeg"
	}
	if err := a.session.UploadAvatar(ctx, contentType, data); err != nil {
		fmt.Fprintln(a.out, "Avatar upload failed:", err)
		return
	}
	a.printProfile()
}
