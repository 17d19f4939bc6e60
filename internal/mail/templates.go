package mail

import "html/template"

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
{{define "subject"}}Taskboard - Confirm your account{{end}}

{{define "plainBody"}}Hi {{.Name}},

Your Taskboard account is almost ready. Confirm it by visiting:

{{.Link}}

If you did not create this account you can ignore this email.
{{end}}

{{define "htmlBody"}}<!doctype html>
<html>
<body>
<p>Hi {{.Name}},</p>
<p>Your Taskboard account is almost ready. Confirm it with the following link:</p>
<p><a href="{{.Link}}">Confirm your account</a></p>
<p>If you did not create this account you can ignore this email.</p>
</body>
</html>
{{end}}
`))

var resetTmpl = template.Must(template.New("reset").Parse(`
{{define "subject"}}Taskboard - Choose a new password{{end}}

{{define "plainBody"}}Hi {{.Name}},

You asked to reset your Taskboard password. Choose a new one at:

{{.Link}}

If you did not ask for this you can ignore this email.
{{end}}

{{define "htmlBody"}}<!doctype html>
<html>
<body>
<p>Hi {{.Name}},</p>
<p>You asked to reset your Taskboard password.</p>
<p><a href="{{.Link}}">Choose a new password</a></p>
<p>If you did not ask for this you can ignore this email.</p>
</body>
</html>
{{end}}
`))
