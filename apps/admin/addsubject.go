package main

import (
	"context"
	"fmt"

	"github.com/agendaestudiantil/backend/core/subject"
)

// addSubject creates an active subject, optionally enrolling every active student.
func (cli *commandLine) addSubject(ns subject.NewSubject, enrollAll bool) error {
	if err := ns.Validate(cli.validate); err != nil {
		return err
	}
	subj, enrolled, err := cli.subjectSvc.Create(context.Background(), ns, enrollAll)
	if err != nil {
		return err
	}
	fmt.Printf("subject %d %q created; %d students enrolled\n", subj.ID, subj.Name, enrolled)
	return nil
}
