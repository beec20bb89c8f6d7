// Command chirp is a terminal front end for the chirp API.
//
//	chirp users
//	chirp posts [-user NAME]
//	chirp profile
//	chirp post -user NAME TEXT
//	chirp edit -user NAME -id ID TEXT
//	chirp delete -user NAME -id ID [-yes]
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/chirp/chirp/internal/client"
	"github.com/chirp/chirp/internal/model"
)

const usage = `usage: chirp <command> [flags]

commands:
  users                              list users
  posts [-user NAME]                 list posts, optionally for one user
  profile                            show the first user and their posts
  post -user NAME TEXT               publish a post
  edit -user NAME -id ID TEXT        replace a post's content
  delete -user NAME -id ID [-yes]    delete a post
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := client.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	app := &app{
		store:  client.NewStore(client.NewFromConfig(cfg)),
		in:     os.Stdin,
		out:    os.Stdout,
		logger: logger,
	}
	os.Exit(app.run(ctx, os.Args[1:]))
}

type app struct {
	store  *client.Store
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
}

// run executes one command and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "users":
		err = a.users(ctx)
	case "posts":
		err = a.posts(ctx, args[1:])
	case "profile":
		err = a.profile(ctx)
	case "post":
		err = a.post(ctx, args[1:])
	case "edit":
		err = a.edit(ctx, args[1:])
	case "delete":
		err = a.delete(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return 0
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	var usageErr usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &usageErr):
		fmt.Fprintf(a.out, "%s\n\n%s", usageErr, usage)
		return 2
	default:
		return 1
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

// users lists every user. Read failures print an error line.
func (a *app) users(ctx context.Context) error {
	users, err := a.store.Users(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users yet.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, u := range users {
		avatar := ""
		if u.Avatar != nil {
			avatar = *u.Avatar
		}
		fmt.Fprintf(tw, "@%s\t%s\t%s\n", u.Username, u.ID, avatar)
	}
	return tw.Flush()
}

func (a *app) posts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("posts", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("user", "", "only show posts by this user")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}

	users, err := a.store.Users(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	userID := ""
	if *username != "" {
		user, err := a.store.UserByUsername(ctx, *username)
		if errors.Is(err, client.ErrUserNotFound) {
			fmt.Fprintf(a.out, "User @%s not found.\n", *username)
			return err
		}
		if err != nil {
			fmt.Fprintf(a.out, "Error: %v\n", err)
			return err
		}
		userID = user.ID
	}

	posts, err := a.store.Posts(ctx, userID)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
		return nil
	}

	for _, p := range posts {
		writePost(a.out, p, names[p.UserID])
	}
	return nil
}

// profile shows the first user, the one the CLI treats as "me".
func (a *app) profile(ctx context.Context) error {
	users, err := a.store.Users(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error loading profile: %v\n", err)
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users found. Please create a user first.")
		return nil
	}

	me := users[0]
	fmt.Fprintf(a.out, "@%s\nJoined %s\n\n", me.Username, me.CreatedAt.Local().Format(time.DateOnly))

	posts, err := a.store.Posts(ctx, me.ID)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet.")
		return nil
	}
	for _, p := range posts {
		writePost(a.out, p, me.Username)
	}
	return nil
}

func writePost(w io.Writer, p model.Post, username string) {
	if username == "" {
		username = "unknown"
	}
	fmt.Fprintf(w, "@%s · %s  [%s]\n  %s\n", username, p.CreatedAt.Local().Format(time.DateTime), p.ID, p.Content)
}

func (a *app) post(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("user", "", "author")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *username == "" {
		return usageError("-user is required")
	}

	user, err := a.store.UserByUsername(ctx, *username)
	if err != nil {
		a.logger.Error("failed to resolve user", "username", *username, "error", err)
		return err
	}

	composer := client.NewComposer(a.store, user.ID)
	composer.SetDraft(strings.Join(fs.Args(), " "))
	// Submit clears the draft.
	counter := composer.Counter()

	post, err := composer.Submit(ctx)
	if err != nil {
		a.logger.Error("failed to create post", "error", err)
		return err
	}

	fmt.Fprintf(a.out, "posted %s (%s)\n", post.ID, counter)
	return nil
}

// ownedPost loads a post and checks that it belongs to the named user.
func (a *app) ownedPost(ctx context.Context, username, id string) (*model.Post, error) {
	user, err := a.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %q: %w", username, err)
	}
	post, err := a.store.Post(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load post %s: %w", id, err)
	}
	if post.UserID != user.ID {
		return nil, fmt.Errorf("post %s does not belong to @%s", id, username)
	}
	return post, nil
}

func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("user", "", "post owner")
	id := fs.String("id", "", "post id")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *username == "" || *id == "" {
		return usageError("-user and -id are required")
	}

	post, err := a.ownedPost(ctx, *username, *id)
	if err != nil {
		a.logger.Error("failed to edit post", "error", err)
		return err
	}

	editor := client.NewPostEditor(a.store, *post)
	editor.StartEdit()
	editor.SetDraft(strings.Join(fs.Args(), " "))
	if err := editor.Save(ctx); err != nil {
		a.logger.Error("failed to update post", "post_id", *id, "error", err)
		return err
	}

	fmt.Fprintf(a.out, "updated %s\n", editor.Post().ID)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("user", "", "post owner")
	id := fs.String("id", "", "post id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	if *username == "" || *id == "" {
		return usageError("-user and -id are required")
	}

	post, err := a.ownedPost(ctx, *username, *id)
	if err != nil {
		a.logger.Error("failed to delete post", "error", err)
		return err
	}

	confirm := func() bool {
		if *yes {
			return true
		}
		fmt.Fprint(a.out, "Are you sure you want to delete this post? [y/N] ")
		answer, _ := bufio.NewReader(a.in).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}

	editor := client.NewPostEditor(a.store, *post)
	deleted, err := editor.Delete(ctx, confirm)
	if err != nil {
		a.logger.Error("failed to delete post", "post_id", *id, "error", err)
		return err
	}
	if !deleted {
		fmt.Fprintln(a.out, "cancelled")
		return nil
	}

	fmt.Fprintf(a.out, "deleted %s\n", *id)
	return nil
}
