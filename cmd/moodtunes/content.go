package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/justestif/moodtunes/internal/auth"
	"github.com/justestif/moodtunes/internal/db"
	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/playlist"
	"github.com/justestif/moodtunes/internal/spotify"
)

func newPlaylistCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "playlist <mood>",
		Short: "List the songs for a mood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mood.ParseMood(args[0])
			if err != nil {
				return err
			}

			svc, cleanup, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := svc.Playlist(m)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Songs for %s %s\n", m.Title(), m.Emoji())
			_, err = playlist.NewLinkSink(a.out, format).Publish(cmd.Context(), m, entries)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "link-format", playlist.YouTubeWatchURL, "printf format turning a content id into a link")
	return cmd
}

func newMoodsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "moods",
		Short: "List known moods and whether songs exist for them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MOOD\t\tSONGS\tFACE\tTEXT")
			for _, info := range svc.Moods() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					info.Mood, info.Emoji, yesNo(info.Available), yesNo(info.Facial), yesNo(info.Text))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "\nFacial confidence threshold: %.2f\n", svc.Threshold())
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var public bool

	cmd := &cobra.Command{
		Use:   "export <mood>",
		Short: "Create a Spotify playlist with the songs for a mood",
		Long: `Create a Spotify playlist with the songs for a mood. The catalog must hold
Spotify track IDs or spotify:track: URIs for that mood.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mood.ParseMood(args[0])
			if err != nil {
				return err
			}

			svc, cleanup, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := svc.Playlist(m)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(a.out, "No songs found for %s.\n", m)
				return nil
			}

			authenticator, err := a.authenticator()
			if err != nil {
				return err
			}
			a.logger.Debug().Str("token_path", authenticator.TokenPath()).Msg("Authenticating with Spotify")
			client, err := authenticator.Authenticate(cmd.Context())
			if err != nil {
				return fmt.Errorf("authenticating with Spotify: %w", err)
			}

			sink := spotify.NewSink(spotify.New(client), spotify.WithPublic(public))
			url, err := sink.Publish(cmd.Context(), m, entries)
			if err != nil {
				return err
			}

			a.logger.Info().Str("mood", string(m)).Int("tracks", len(entries)).Msg("Playlist created")
			fmt.Fprintln(a.out, url)
			return nil
		},
	}

	cmd.Flags().BoolVar(&public, "public", false, "make the playlist public")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the cached Spotify token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := auth.NewTokenCache(a.cfg.Spotify.TokenPath)
			if err != nil {
				return err
			}
			if err := cache.Delete(); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed %s\n", cache.Path())
			return nil
		},
	}
}

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the song catalog stored in PostgreSQL",
	}

	var file string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Write a catalog into the database",
		Long: `Write a catalog into the database, replacing the songs of every mood it
lists. Without --file the built-in catalog is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := playlist.DefaultCatalog()
			if file != "" {
				var err error
				if catalog, err = playlist.LoadFile(file); err != nil {
					return err
				}
			}

			database, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			repo := database.Content()
			for _, m := range mood.All() {
				entries, ok := catalog[m]
				if !ok {
					continue
				}
				if err := repo.ReplaceMood(cmd.Context(), string(m), playlist.Strings(entries)); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s: %d songs\n", m, len(entries))
			}
			return nil
		},
	}
	seed.Flags().StringVarP(&file, "file", "f", "", "YAML catalog to import")

	list := &cobra.Command{
		Use:   "list [mood]",
		Short: "Show the catalog stored in the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			repo := database.Content()
			if len(args) == 1 {
				m, err := mood.ParseMood(args[0])
				if err != nil {
					return err
				}
				ids, err := repo.ForMood(cmd.Context(), string(m))
				if errors.Is(err, db.ErrNotFound) {
					fmt.Fprintf(a.out, "No songs found for %s.\n", m)
					return nil
				}
				if err != nil {
					return err
				}
				for i, id := range ids {
					fmt.Fprintf(a.out, "%d. %s\n", i+1, id)
				}
				return nil
			}

			rows, err := repo.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MOOD\tPOS\tCONTENT\tADDED")
			for _, row := range rows {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", row.Mood, row.Position, row.ContentID, row.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(seed, list)
	return cmd
}

// authenticator builds a Spotify authenticator from configuration.
func (a *app) authenticator() (*auth.Authenticator, error) {
	if err := a.cfg.RequireSpotify(); err != nil {
		return nil, err
	}

	cache, err := auth.NewTokenCache(a.cfg.Spotify.TokenPath)
	if err != nil {
		return nil, err
	}

	return auth.New(auth.Credentials{
		ClientID:     a.cfg.Spotify.ClientID,
		ClientSecret: a.cfg.Spotify.ClientSecret,
		RedirectURI:  a.cfg.Spotify.RedirectURI,
	}, auth.WithTokenCache(cache), auth.WithLogger(a.logger))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
