package main

import "fmt"

type versionCmd struct{ r *root }

func (v *versionCmd) Run() error {
	fmt.Fprintf(v.r.out(), "%s version %s\n", v.r.program, version)
	if commit != "" {
		fmt.Fprintf(v.r.out(), "commit %s built %s\n", commit, date)
	}
	return nil
}
