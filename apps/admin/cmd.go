package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/agendaestudiantil/backend/core/student"
	"github.com/agendaestudiantil/backend/core/subject"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sqlx.DB
	validate   *validator.Validate
	studentSvc student.ServiceInterface
	subjectSvc subject.ServiceInterface
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (up, up-by-one, up-to, down, down-to, redo, reset, status, version)")
	fmt.Println("  addsubject -name NAME [-code CODE] [-icon ICON] [-description TEXT] [-credits N] [-instructor NAME] [-enroll] - add an active subject")
	fmt.Println("  resetpassword -email EMAIL - reset a student's password")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addSubjectCmd := flag.NewFlagSet("addsubject", flag.ExitOnError)
	addSubjectName := addSubjectCmd.String("name", "", "The subject's name.")
	addSubjectCode := addSubjectCmd.String("code", "", "The subject's code.")
	addSubjectIcon := addSubjectCmd.String("icon", "", "The subject's icon (defaults to 📚).")
	addSubjectDesc := addSubjectCmd.String("description", "", "The subject's description.")
	addSubjectCredits := addSubjectCmd.Int("credits", 0, "The subject's credits.")
	addSubjectInstructor := addSubjectCmd.String("instructor", "", "The subject's instructor.")
	addSubjectEnroll := addSubjectCmd.Bool("enroll", false, "Enroll every active student in the new subject.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The student's email. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "addsubject":
		if err := addSubjectCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addSubjectName == "" {
			addSubjectCmd.Usage()
			return errHelp
		}
		return cli.addSubject(subject.NewSubject{
			Name:        *addSubjectName,
			Code:        *addSubjectCode,
			Icon:        *addSubjectIcon,
			Description: *addSubjectDesc,
			Credits:     *addSubjectCredits,
			Instructor:  *addSubjectInstructor,
		}, *addSubjectEnroll)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, string(pwd))

	default:
		cli.printUsage()
		return errHelp
	}
}
