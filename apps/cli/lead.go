package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/gradespark/core/lead"
)

// submitLead waits for the delivery so that the process does not exit before the lead is sent or backed up.
func (cli *commandLine) submitLead(nl lead.NewLead) error {
	l, err := cli.leadSvc.Submit(context.Background(), nl)
	if err != nil {
		return err
	}
	cli.leadSvc.Wait()
	fmt.Fprintf(cli.out, "Thanks %s, your request for %q was received.\n", l.Name, l.Feature)
	return nil
}

func (cli *commandLine) listLeads() error {
	leads, err := cli.leadSvc.Backlog()
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		fmt.Fprintln(cli.out, "No leads kept locally.")
		return nil
	}
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tNAME\tEMAIL\tSCHOOL\tFEATURE")
	for _, l := range leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", l.Timestamp.Format("2006-01-02 15:04"), l.Name, l.Email, l.School, l.Feature)
	}
	return tw.Flush()
}
