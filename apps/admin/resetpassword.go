package main

import (
	"context"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	return cli.studentSvc.ResetPassword(context.Background(), email, pwd)
}
