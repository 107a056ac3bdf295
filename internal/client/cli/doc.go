// Package cli implements todoctl, the command-line client of the todo API.
//
// Each invocation runs one command:
//
//	signup [email]            create an account (password is prompted)
//	login [email]             log in and keep the token in the token file
//	logout                    revoke the current token
//	logout-all                revoke every token of the account
//	list [all|done|open] [q]  list todos, optionally filtered
//	add <description>         create a todo
//	done <id>                 mark a todo completed
//	rm <id>                   delete a todo
//
// The bearer token lives in a file readable only by its owner; see
// config.Config.TokenFile.
package cli
