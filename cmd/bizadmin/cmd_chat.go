package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/client"
	"github.com/shashiranjanraj/bizadmin/pkg/report"
)

var loginEmail, loginPassword string

// bizadmin login prints a token for --token / BIZADMIN_TOKEN.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange admin credentials for a bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := apiClient().Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

var chatSession string

// bizadmin chat [--session id] <message...>
var chatCmd = &cobra.Command{
	Use:   "chat <message...>",
	Short: "Send a message, continuing --session or starting a new one",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c := apiClient()

		id := chatSession
		var transcript []client.Turn
		if id == "" {
			var err error
			if id, err = c.NewSession(ctx); err != nil {
				return err
			}
			fmt.Println("session:", id)
		} else {
			prior, err := c.SessionMessages(ctx, id)
			if err != nil {
				return err
			}
			for _, m := range prior {
				transcript = append(transcript, client.Turn{Role: m.Role, Content: m.Content})
			}
		}

		transcript = append(transcript, client.Turn{Role: "user", Content: strings.Join(args, " ")})
		reply, err := c.Chat(ctx, id, transcript)
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	},
}

var (
	reportSort   string
	reportDir    string
	reportSearch string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Chat history reports",
}

// bizadmin report history
var reportHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "All messages, sorted, with a divider between sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sorter, err := sorterFromFlags()
		if err != nil {
			return err
		}
		msgs, err := apiClient().History(cmd.Context())
		if err != nil {
			return err
		}
		if q := strings.ToLower(reportSearch); q != "" {
			kept := msgs[:0]
			for _, m := range msgs {
				if strings.Contains(strings.ToLower(m.Content), q) || strings.HasPrefix(m.SessionID, q) {
					kept = append(kept, m)
				}
			}
			msgs = kept
		}

		rows := report.ApplySort(sorter, msgs)
		breaks := report.Separators(rows)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tDATE\tROLE\tCONTENT")
		for i, m := range rows {
			if breaks[i] && i > 0 {
				fmt.Fprintln(w, "--------\t\t\t")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.SessionID, m.Date.Format("2006-01-02 15:04"), m.Role, m.Content)
		}
		return w.Flush()
	},
}

// bizadmin report sessions
var reportSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "One line per session",
	RunE: func(cmd *cobra.Command, args []string) error {
		sorter, err := sorterFromFlags()
		if err != nil {
			return err
		}
		sums, err := apiClient().SessionsSummary(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tMESSAGES\tLAST DATE\tLAST MESSAGE")
		for _, s := range report.ApplySort(sorter, sums) {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.SessionID, s.MessageCount, s.LastDate.Format("2006-01-02 15:04"), s.LastMessage)
		}
		return w.Flush()
	},
}

// sorterFromFlags replays the column clicks the flags describe: --sort
// picks the column (ascending on a new column), --dir overrides.
func sorterFromFlags() (*report.Sorter, error) {
	s := report.NewSorter()
	if reportSort != "" {
		col, err := report.ParseColumn(reportSort)
		if err != nil {
			return nil, err
		}
		s.Click(col)
	}
	if reportDir != "" {
		dir, err := report.ParseDirection(reportDir)
		if err != nil {
			return nil, err
		}
		s.Direction = dir
	}
	return s, nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", config.AdminEmail(), "admin email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "admin password")

	chatCmd.Flags().StringVar(&chatSession, "session", "", "existing session id")

	reportCmd.PersistentFlags().StringVar(&reportSort, "sort", "", "sort column: session_id or date")
	reportCmd.PersistentFlags().StringVar(&reportDir, "dir", "", "asc or desc")
	reportHistoryCmd.Flags().StringVarP(&reportSearch, "search", "s", "", "filter by content or session prefix")
	reportCmd.AddCommand(reportHistoryCmd, reportSessionsCmd)
}
