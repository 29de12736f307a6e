package main

import "testing"

func TestPunchInRequiresProject(t *testing.T) {
	if err := punchInCmd.Args(punchInCmd, nil); err == nil {
		t.Fatal("punch in accepted no project")
	}
	if err := punchInCmd.Args(punchInCmd, []string{"Website"}); err != nil {
		t.Fatalf("punch in rejected one project: %v", err)
	}
	if err := punchInCmd.Args(punchInCmd, []string{"a", "b"}); err == nil {
		t.Fatal("punch in accepted two projects")
	}
}
