package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type client struct {
	BaseURL   string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(method, path string, body []byte, headers map[string]string) (int, []byte, error) {
	u := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequest(method, u, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *client) print(status int, body []byte) {
	if c.OutFormat == "json" {
		var v any
		if json.Unmarshal(body, &v) == nil {
			p, _ := json.MarshalIndent(v, "", "  ")
			fmt.Println(string(p))
			return
		}
	}
	if len(body) > 0 {
		fmt.Println(string(body))
	} else {
		fmt.Printf("status=%d\n", status)
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()

	var (
		baseURL = envOr("NOTIBOX_URL", "http://localhost:8080")
		out     = envOr("NOTIBOX_OUT", "text")
		timeout = 30 * time.Second
	)

	root := &cobra.Command{
		Use:   "notibox",
		Short: "CLI admin para el servicio de notificaciones",
	}

	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del API (env NOTIBOX_URL)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	cl := &client{BaseURL: baseURL, OutFormat: out, HTTP: &http.Client{Timeout: timeout}}

	// ─── users ───
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Administración de cuentas de email",
	}

	var username, emailAddr string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Crear una cuenta y emitir su API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || emailAddr == "" {
				return fmt.Errorf("faltan --username y/o --email")
			}
			body, _ := json.Marshal(map[string]string{"username": username, "email": emailAddr})
			status, resp, err := cl.do("POST", "/users", body, nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}
	createCmd.Flags().StringVar(&username, "username", "", "Username de la cuenta")
	createCmd.Flags().StringVar(&emailAddr, "email", "", "Email de la cuenta")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar cuentas",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, resp, err := cl.do("GET", "/users", nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Borrar una cuenta por id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, resp, err := cl.do("DELETE", "/users/"+url.PathEscape(args[0]), nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}

	usersCmd.AddCommand(createCmd, listCmd, deleteCmd)

	// ─── email ───
	var apiKey, to, subject, bodyText string
	var isHTML bool
	emailCmd := &cobra.Command{
		Use:   "send",
		Short: "Enviar un email de prueba",
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				return fmt.Errorf("falta --api-key")
			}
			payload, _ := json.Marshal(map[string]any{
				"to": to, "subject": subject, "body": bodyText, "isHtml": isHTML,
			})
			status, resp, err := cl.do("POST", "/email/send", payload, map[string]string{"apiKey": apiKey})
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}
	emailCmd.Flags().StringVar(&apiKey, "api-key", envOr("NOTIBOX_API_KEY", ""), "API key (env NOTIBOX_API_KEY)")
	emailCmd.Flags().StringVar(&to, "to", "", "Destinatario")
	emailCmd.Flags().StringVar(&subject, "subject", "", "Subject")
	emailCmd.Flags().StringVar(&bodyText, "body", "", "Cuerpo del mensaje")
	emailCmd.Flags().BoolVar(&isHTML, "html", false, "Enviar como HTML")

	emailGroup := &cobra.Command{Use: "email", Short: "Envío de emails"}
	emailGroup.AddCommand(emailCmd)

	// ─── telegram ───
	telegramCmd := &cobra.Command{Use: "telegram", Short: "Operaciones del bot de Telegram"}

	var message string
	tgSendCmd := &cobra.Command{
		Use:   "send",
		Short: "Enviar un mensaje al chat por defecto",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("message", message)
			status, resp, err := cl.do("GET", "/telegram/send?"+q.Encode(), nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}
	tgSendCmd.Flags().StringVar(&message, "message", "Test message from API", "Texto del mensaje")

	var webhookBase string
	tgSetupCmd := &cobra.Command{
		Use:   "setup-webhook",
		Short: "Registrar el webhook del bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if webhookBase != "" {
				q.Set("baseUrl", webhookBase)
			}
			path := "/telegram/setup-webhook"
			if enc := q.Encode(); enc != "" {
				path += "?" + enc
			}
			status, resp, err := cl.do("GET", path, nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}
	tgSetupCmd.Flags().StringVar(&webhookBase, "base-url", "", "URL pública base del servicio")

	tgRemoveCmd := &cobra.Command{
		Use:   "remove-webhook",
		Short: "Dar de baja el webhook del bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, resp, err := cl.do("GET", "/telegram/remove-webhook", nil, nil)
			if err != nil {
				return err
			}
			cl.print(status, resp)
			return nil
		},
	}

	telegramCmd.AddCommand(tgSendCmd, tgSetupCmd, tgRemoveCmd)

	root.AddCommand(usersCmd, emailGroup, telegramCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
