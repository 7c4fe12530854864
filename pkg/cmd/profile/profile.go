package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/dash/internal/avatar"
	"github.com/Paintersrp/dash/internal/config"
	"github.com/Paintersrp/dash/internal/constants"
	profilesvc "github.com/Paintersrp/dash/internal/services/profile"
	"github.com/Paintersrp/dash/internal/state"
	"github.com/Paintersrp/dash/pkg/shared/output"
	"github.com/Paintersrp/dash/pkg/shared/prompt"
)

var (
	readPassword = prompt.Password
	newUploader  = func(ctx context.Context, cfg config.AvatarConfig) (avatar.Uploader, error) {
		return avatar.NewS3Uploader(ctx, cfg)
	}
)

func NewCmdProfile(s *state.State) *cobra.Command {
	show := newCmdShow(s)

	c := &cobra.Command{
		Use:     "profile",
		Aliases: []string{"p", "me"},
		Short:   "View and edit your profile",
		RunE:    show.RunE,
	}

	c.AddCommand(
		show,
		newCmdUpdate(s),
		newCmdAvatar(s),
		newCmdPassword(s),
	)
	c.Annotations = map[string]string{constants.RouteAnnotation: constants.RouteProfile}
	for _, sub := range c.Commands() {
		sub.Annotations = c.Annotations
	}

	return c
}

func newCmdShow(s *state.State) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your account and profile",
		RunE: func(c *cobra.Command, args []string) error {
			resp, err := s.Profile.Get(c.Context())
			if err != nil {
				return err
			}

			p := resp.Profile
			rows := [][]string{
				{"Username", resp.User.Username},
				{"Email", resp.User.Email},
			}
			for _, f := range []struct{ label, value string }{
				{"Name", p.FullName},
				{"Bio", output.Truncate(p.Bio, 60)},
				{"Avatar", p.Avatar},
				{"Birthday", p.DateOfBirth},
				{"Gender", p.Gender},
				{"Phone", p.PhoneNumber},
				{"Location", strings.Trim(p.City+", "+p.Country, ", ")},
				{"Timezone", p.Timezone},
				{"Language", p.Language},
				{"Theme", p.Theme},
			} {
				if f.value != "" {
					rows = append(rows, []string{f.label, f.value})
				}
			}
			fmt.Fprintln(c.OutOrStdout(), output.Table([]string{"Field", "Value"}, rows))
			return nil
		},
	}
}

func newCmdUpdate(s *state.State) *cobra.Command {
	var req profilesvc.UpdateRequest

	c := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Long: heredoc.Doc(`
			Update the fields passed as flags. Empty values are ignored, so a
			field cannot be cleared from here.
		`),
		Example: heredoc.Doc(`
			dash profile update --name "Ada Lovelace" --city London --timezone Europe/London
		`),
		RunE: func(c *cobra.Command, args []string) error {
			if req == (profilesvc.UpdateRequest{}) {
				return errors.New("nothing to update: pass at least one field flag")
			}
			resp, err := s.Profile.Update(c.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Updated profile for %s.\n", resp.User.Username)
			return nil
		},
	}

	f := c.Flags()
	f.StringVar(&req.FullName, "name", "", "Full name")
	f.StringVar(&req.Bio, "bio", "", "Short bio")
	f.StringVar(&req.DateOfBirth, "birthday", "", "Date of birth")
	f.StringVar(&req.Gender, "gender", "", "Gender")
	f.StringVar(&req.PhoneNumber, "phone", "", "Phone number")
	f.StringVar(&req.Country, "country", "", "Country")
	f.StringVar(&req.City, "city", "", "City")
	f.StringVar(&req.Timezone, "timezone", "", "Timezone")
	f.StringVar(&req.Language, "language", "", "Language")
	f.StringVar(&req.Theme, "theme", "", "Theme")
	return c
}

func newCmdAvatar(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:   "avatar <image|url>",
		Short: "Set your profile picture",
		Long: heredoc.Doc(`
			Upload an image (png, jpeg, gif or webp, up to 5MB) to the avatar
			bucket from the config and set it as your profile picture. An
			http(s) URL is stored as is.
		`),
		Example: heredoc.Doc(`
			dash profile avatar ~/Pictures/me.png
			dash profile avatar https://example.com/me.png
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			target := args[0]

			if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
				if err := s.Profile.UpdateAvatar(ctx, target); err != nil {
					return err
				}
				fmt.Fprintln(c.OutOrStdout(), "Avatar updated.")
				return nil
			}

			resp, err := s.Profile.Get(ctx)
			if err != nil {
				return err
			}
			up, err := newUploader(ctx, s.Config.Avatar)
			if err != nil {
				return err
			}
			url, err := avatar.SetFromFile(ctx, up, s.Profile, s.Config.Avatar.Prefix, resp.User.ID, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Avatar updated: %s\n", url)
			return nil
		},
	}

	return c
}

func newCmdPassword(s *state.State) *cobra.Command {
	c := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			ask := func(label string) (string, error) { return readPassword(out, label) }

			old, err := ask("Current password: ")
			if err != nil {
				return err
			}
			next, err := ask("New password: ")
			if err != nil {
				return err
			}
			again, err := ask("Confirm new password: ")
			if err != nil {
				return err
			}
			if next != again {
				return errors.New("passwords do not match")
			}
			if len(next) < 6 {
				return errors.New("password must be at least 6 characters")
			}

			req := profilesvc.ChangePasswordRequest{OldPassword: old, NewPassword: next}
			if err := s.Profile.ChangePassword(c.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(out, "Password changed.")
			return nil
		},
	}

	return c
}

