package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"task-dashboard/internal/domain"
)

// Message is a rendered email ready for delivery.
type Message struct {
	Subject string
	HTML    string
}

var reminderTemplate = template.Must(template.New("reminder").Parse(`<html>
<body>
<h3>Lembrete de Tarefa</h3>
<p><strong>Tarefa:</strong> {{.Name}}</p>
<p><strong>Descrição:</strong> {{.Description}}</p>
<p><strong>Período:</strong> {{.Start}} - {{.End}}</p>
<p><strong>Dias Restantes:</strong> {{.DaysRemaining}} {{if eq .DaysRemaining 1}}dia{{else}}dias{{end}}</p>
<p>Por favor, não se esqueça de atualizar o progresso desta tarefa.</p>
<hr>
<p>{{.Footer}}</p>
</body>
</html>
`))

var testTemplate = template.Must(template.New("test").Parse(`<html>
<body>
<h3>Configuração de Email</h3>
<p>As configurações de email de {{.Sender}} estão funcionando.</p>
<hr>
<p>Este é um email de teste do seu Sistema de Gerenciamento de Tarefas.</p>
</body>
</html>
`))

const (
	footerDaily  = "Este é um lembrete automático enviado diariamente até a data de conclusão."
	footerManual = "Este é um lembrete do seu Sistema de Gerenciamento de Tarefas."
)

// Renderer builds reminder messages. Dates use DateFormat (dd/mm/yyyy by default).
type Renderer struct {
	DateFormat string
}

// NewRenderer returns a Renderer with the given Go date layout.
func NewRenderer(dateFormat string) *Renderer {
	if dateFormat == "" {
		dateFormat = "02/01/2006"
	}
	return &Renderer{DateFormat: dateFormat}
}

// Reminder renders the daily reminder for task as seen on today.
func (r *Renderer) Reminder(task domain.Task, today domain.Date) (Message, error) {
	return r.render(task, today, "Lembrete Diário: ", footerDaily)
}

// ManualReminder renders a reminder sent on demand for a single task.
func (r *Renderer) ManualReminder(task domain.Task, today domain.Date) (Message, error) {
	return r.render(task, today, "Lembrete de Tarefa: ", footerManual)
}

func (r *Renderer) render(task domain.Task, today domain.Date, subjectPrefix, footer string) (Message, error) {
	data := struct {
		Name, Description, Start, End, Footer string
		DaysRemaining                         int
	}{
		Name:          task.Name,
		Description:   task.Description,
		Start:         task.StartDate.Format(r.DateFormat),
		End:           task.EndDate.Format(r.DateFormat),
		Footer:        footer,
		DaysRemaining: task.DaysRemaining(today),
	}

	var buf bytes.Buffer
	if err := reminderTemplate.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render reminder for %s: %w", task.ID, err)
	}
	return Message{Subject: subjectPrefix + task.Name, HTML: buf.String()}, nil
}

// Test renders the message used to check the email settings.
func (r *Renderer) Test(sender string) (Message, error) {
	var buf bytes.Buffer
	if err := testTemplate.Execute(&buf, struct{ Sender string }{sender}); err != nil {
		return Message{}, fmt.Errorf("render test message: %w", err)
	}
	return Message{Subject: "Teste de Configuração de Email", HTML: buf.String()}, nil
}
