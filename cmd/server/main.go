package main

import "careintake/internal/app"

// @title        Careers Intake API
// @version      1.0
// @description  Job-application intake: email verification and document submission.
// @BasePath     /
func main() {
	app.Run()
}
