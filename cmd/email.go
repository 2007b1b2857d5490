/*
Copyright 2026 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var emailCmd = &cobra.Command{
	Use:   "email <address> <user>",
	Short: "Emails a user's wrapped summary",
	Long:  `Sends the text summary for the report year to the given address via SendGrid.`,
	Args:  cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		if viper.GetString("sendgrid_api_key") == "" {
			return fmt.Errorf("required flag(s) \"sendgrid_api_key\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		err := emailSummary(args[0], args[1], viper.GetString("database"), viper.GetInt("year"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)
}

func emailSummary(toAddress, user, dbPath string, year int) error {
	var body bytes.Buffer
	if err := printSummary(&body, dbPath, user, year, 10); err != nil {
		return err
	}

	from := mail.NewEmail("plex-wrapped", viper.GetString("from"))
	subject := fmt.Sprintf("Your %d wrapped, %s", year, user)
	to := mail.NewEmail(toAddress, toAddress)
	bodyText := body.String()
	message := mail.NewSingleEmail(from, subject, to, bodyText, "<pre>"+bodyText+"</pre>")
	client := sendgrid.NewSendClient(viper.GetString("sendgrid_api_key"))
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}

	fmt.Printf("Sent wrapped summary for %q to %s\n", user, toAddress)
	return nil
}
