package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"task-dashboard/internal/config"
	"task-dashboard/internal/domain"
	"task-dashboard/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	app        *App
	factory    APIFactory
	loaderOpts []config.LoaderOption
}

// RootOption customises the root command.
type RootOption func(*RootCommand)

// WithAPIFactory replaces the factory that opens the business API.
func WithAPIFactory(factory APIFactory) RootOption {
	return func(r *RootCommand) {
		r.factory = factory
	}
}

// WithLoaderOptions passes extra options to the configuration loader.
func WithLoaderOptions(opts ...config.LoaderOption) RootOption {
	return func(r *RootCommand) {
		r.loaderOpts = append(r.loaderOpts, opts...)
	}
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts ...RootOption) *RootCommand {
	root := &RootCommand{factory: DefaultAPIFactory}
	for _, opt := range opts {
		opt(root)
	}

	root.cmd = &cobra.Command{
		Use:   "taskdash",
		Short: "A task dashboard with daily email reminders",
		Long: `Task Dashboard (taskdash) keeps a list of dated, owned tasks and emails a
reminder for every task that is active today, once per day after 07:00.

FEATURES:
  • Add, edit, list and delete tasks with a start date, end date and owner
  • Import and export the task list as CSV, JSON or YAML
  • Route reminders to each owner's email, or to a default receiver
  • Draw a timeline chart of the tasks in the terminal
  • Serve everything over HTTP with the daily scheduler running

EXAMPLES:
  taskdash add "Relatório mensal" --start 01/02/2024 --end 10/02/2024 --owner João
  taskdash list --owner João                   # Tasks owned by João
  taskdash list --active                       # Tasks active today
  taskdash settings set --sender me@gmail.com --receiver team@example.com --password-stdin
  taskdash owners set João joao@example.com    # Send João's reminders to him
  taskdash remind daily                        # Send today's reminders if due
  taskdash chart --color period                # Timeline coloured by period
  taskdash export --format yaml > tasks.yaml   # Export the task list
  taskdash serve                               # HTTP API plus daily scheduler

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults

  Storage Configuration:
    TASKDASH_DIR                           Data directory (default: ~/.taskdash)
    TASKDASH_DB_FILENAME                   Database filename (default: taskdash.db)
    TASKDASH_SECRET_PASSPHRASE             Derive the password key from a passphrase

  Reminder Configuration:
    TASKDASH_REMINDER_THRESHOLD            Daily send time (default: 07:00)
    TASKDASH_REMINDER_LOCATION             Time zone (default: America/Sao_Paulo)

  SMTP Configuration:
    TASKDASH_SMTP_HOST                     SMTP host (default: smtp.gmail.com)
    TASKDASH_SMTP_TIMEOUT                  Per attempt timeout (default: 30s)

  HTTP Configuration:
    TASKDASH_HTTP_HOST                     Listen host (default: 127.0.0.1)
    TASKDASH_HTTP_PORT                     Listen port (default: 8080)

  Application Configuration:
    TASKDASH_CONFIG                        YAML config file
    TASKDASH_ENV                           local, dev or prod (default: local)
    TASKDASH_APP_TIMEOUT                   Command timeout (default: 60s)
    TASKDASH_LOG_LEVEL                     Log level (default: info)

GETTING HELP:
  taskdash [command] --help                # Get help for any specific command
  taskdash completion bash                 # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases the API afterwards
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if r.app != nil {
		if closeErr := r.app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}

// SetArgs sets the arguments parsed by Execute
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetOutput directs command output and errors
func (r *RootCommand) SetOutput(out, errOut io.Writer) {
	r.cmd.SetOut(out)
	r.cmd.SetErr(errOut)
}

// SetInput sets the reader used by --password-stdin and import from "-"
func (r *RootCommand) SetInput(in io.Reader) {
	r.cmd.SetIn(in)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML configuration file (overrides TASKDASH_CONFIG)")

	// Storage configuration
	flags.String("dir", "", "Data directory (overrides TASKDASH_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TASKDASH_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Database query timeout (overrides TASKDASH_DB_QUERY_TIMEOUT)")
	flags.Duration("db-write-timeout", 0, "Database write timeout (overrides TASKDASH_DB_WRITE_TIMEOUT)")

	// Reminder configuration
	flags.String("threshold", "", "Daily reminder time HH:MM (overrides TASKDASH_REMINDER_THRESHOLD)")
	flags.String("location", "", "Reminder time zone (overrides TASKDASH_REMINDER_LOCATION)")

	// SMTP configuration
	flags.String("smtp-host", "", "SMTP host (overrides TASKDASH_SMTP_HOST)")
	flags.Duration("smtp-timeout", 0, "SMTP attempt timeout (overrides TASKDASH_SMTP_TIMEOUT)")

	// HTTP configuration
	flags.String("http-host", "", "HTTP listen host (overrides TASKDASH_HTTP_HOST)")
	flags.Int("http-port", 0, "HTTP listen port (overrides TASKDASH_HTTP_PORT)")

	// Display configuration
	flags.String("date-format", "", "Date layout for display and input (overrides TASKDASH_DATE_FORMAT)")
	flags.Int("chart-width", 0, "Chart width in columns (overrides TASKDASH_CHART_WIDTH)")

	// Application configuration
	flags.String("env", "", "Environment: local, dev or prod (overrides TASKDASH_ENV)")
	flags.Duration("app-timeout", 0, "Application timeout (overrides TASKDASH_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TASKDASH_VERBOSE)")
	flags.String("log-level", "", "Log level (overrides TASKDASH_LOG_LEVEL)")
}

// setup loads configuration, builds the logger and the App. The API
// itself opens on first use.
func (r *RootCommand) setup(cmd *cobra.Command) error {
	overrides, configFile := r.overridesFromFlags(cmd)

	loaderOpts := append([]config.LoaderOption{}, r.loaderOpts...)
	if configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(configFile))
	}

	cfg, err := config.NewLoader(loaderOpts...).LoadWithOverrides(overrides)
	if err != nil {
		return err
	}

	logger := logging.New(cmd.ErrOrStderr(), logging.Options{
		Env:     cfg.Application.Env,
		Level:   cfg.Application.LogLevel,
		Verbose: cfg.Application.Verbose,
	})

	r.app = NewApp(cfg, logger, r.factory)
	return nil
}

// overridesFromFlags converts the flags set on the command line into
// configuration overrides.
func (r *RootCommand) overridesFromFlags(cmd *cobra.Command) (*config.ConfigOverrides, string) {
	flags := cmd.Flags()
	o := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	dur := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}
	num := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}

	o.Dir = str("dir")
	o.DBFilename = str("db-filename")
	o.QueryTimeout = dur("db-query-timeout")
	o.WriteTimeout = dur("db-write-timeout")
	o.Threshold = str("threshold")
	o.Location = str("location")
	o.SMTPHost = str("smtp-host")
	o.SMTPTimeout = dur("smtp-timeout")
	o.HTTPHost = str("http-host")
	o.HTTPPort = num("http-port")
	o.DateFormat = str("date-format")
	o.ChartWidth = num("chart-width")
	o.Env = str("env")
	o.Timeout = dur("app-timeout")
	o.LogLevel = str("log-level")
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}

	configFile, _ := flags.GetString("config")
	return o, configFile
}

// run opens the API and calls fn with a context bounded by the
// application timeout.
func (r *RootCommand) run(fn func(ctx context.Context, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if _, err := r.app.API(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), r.app.cfg.Application.Timeout)
		defer cancel()
		return fn(ctx, cmd, args)
	}
}

// changedString returns the flag value when it was set on the command line.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("description", "d", "", "Task description")
	cmd.Flags().StringP("start", "s", "", "Start date (YYYY-MM-DD or the display format)")
	cmd.Flags().StringP("end", "e", "", "End date (YYYY-MM-DD or the display format)")
	cmd.Flags().StringP("owner", "o", "", "Task owner")
	cmd.Flags().String("email", "", "Owner email for this task only")
}

func taskFieldsFromFlags(cmd *cobra.Command) TaskFields {
	return TaskFields{
		Name:        changedString(cmd, "name"),
		Description: changedString(cmd, "description"),
		Start:       changedString(cmd, "start"),
		End:         changedString(cmd, "end"),
		Owner:       changedString(cmd, "owner"),
		OwnerEmail:  changedString(cmd, "email"),
	}
}

func filterFromFlags(cmd *cobra.Command) domain.TaskFilter {
	owners, _ := cmd.Flags().GetStringSlice("owner")
	search, _ := cmd.Flags().GetString("search")
	return domain.TaskFilter{Owners: owners, Search: search}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("owner", nil, "Only tasks of these owners (repeatable)")
	cmd.Flags().StringP("search", "q", "", "Only tasks whose name or description contains this text")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.newAddCommand(),
		r.newListCommand(),
		r.newShowCommand(),
		r.newEditCommand(),
		r.newDeleteCommand(),
		r.newClearCommand(),
		r.newImportCommand(),
		r.newExportCommand(),
		r.newOwnersCommand(),
		r.newSettingsCommand(),
		r.newRemindCommand(),
		r.newChartCommand(),
		r.newServeCommand(),
	)
}

func (r *RootCommand) newAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [task name]",
		Short: "Add a task",
		Long:  "Add a task. Dates are inclusive; a task is active from its start date through its end date.",
		Args:  cobra.MinimumNArgs(1),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			fields := taskFieldsFromFlags(cmd)
			name := strings.Join(args, " ")
			fields.Name = &name
			return NewAddCommand(r.app, cmd.OutOrStdout()).Execute(ctx, fields)
		}),
	}
	addTaskFlags(cmd)
	return cmd
}

func (r *RootCommand) newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [search text]",
		Short: "List tasks",
		Long:  "List tasks, optionally filtered by owner and by text in the name or description.",
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			filter := filterFromFlags(cmd)
			if len(args) > 0 && filter.Search == "" {
				filter.Search = strings.Join(args, " ")
			}
			active, _ := cmd.Flags().GetBool("active")
			asJSON, _ := cmd.Flags().GetBool("json")
			return NewListCommand(r.app, cmd.OutOrStdout()).Execute(ctx, ListOptions{
				Owners: filter.Owners,
				Search: filter.Search,
				Active: active,
				JSON:   asJSON,
			})
		}),
	}
	addFilterFlags(cmd)
	cmd.Flags().Bool("active", false, "Only tasks active today")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")
	return cmd
}

func (r *RootCommand) newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [task id]",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return NewShowCommand(r.app, cmd.OutOrStdout()).Execute(ctx, args[0])
		}),
	}
}

func (r *RootCommand) newEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [task id]",
		Short: "Change fields of a task",
		Long:  "Change the given fields of a task. Fields without a flag keep their value; an empty value clears an optional field.",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return NewEditCommand(r.app, cmd.OutOrStdout()).Execute(ctx, args[0], taskFieldsFromFlags(cmd))
		}),
	}
	cmd.Flags().StringP("name", "n", "", "Task name")
	addTaskFlags(cmd)
	return cmd
}

func (r *RootCommand) newDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [task id]",
		Short: "Delete a task",
		Long:  "Delete a task by id, or every task with a given name using --name.",
		Args:  cobra.MaximumNArgs(1),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			name, _ := cmd.Flags().GetString("name")
			return NewDeleteCommand(r.app, cmd.OutOrStdout()).Execute(ctx, id, name)
		}),
	}
	cmd.Flags().StringP("name", "n", "", "Delete every task with this name")
	return cmd
}

func (r *RootCommand) newClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			return NewClearCommand(r.app, cmd.OutOrStdout()).Execute(ctx, yes)
		}),
	}
	cmd.Flags().BoolP("yes", "y", false, "Confirm removing every task")
	return cmd
}

func (r *RootCommand) newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import tasks from CSV, JSON or YAML",
		Long:  "Import tasks from a file, or from standard input when the file is \"-\". The format follows the extension unless --format is given.",
		Args:  cobra.ExactArgs(1),
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			flagFormat, _ := cmd.Flags().GetString("format")
			replace, _ := cmd.Flags().GetBool("replace")

			format, err := formatFor(flagFormat, args[0])
			if err != nil {
				return r.app.errors.Handle("import tasks", err)
			}

			in := cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return r.app.errors.Handle("import tasks", err)
				}
				defer f.Close()
				in = f
			}
			return NewImportCommand(r.app, cmd.OutOrStdout()).Execute(ctx, in, format, replace)
		}),
	}
	cmd.Flags().StringP("format", "f", "", "Input format: csv, json or yaml")
	cmd.Flags().Bool("replace", false, "Replace the whole task list instead of adding")
	return cmd
}

func (r *RootCommand) newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as CSV, JSON or YAML",
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			flagFormat, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			format, err := formatFor(flagFormat, output)
			if err != nil {
				return r.app.errors.Handle("export tasks", err)
			}

			out := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return r.app.errors.Handle("export tasks", err)
				}
				defer f.Close()
				out = f
			}
			return NewExportCommand(r.app).Execute(ctx, out, filterFromFlags(cmd), format)
		}),
	}
	addFilterFlags(cmd)
	cmd.Flags().StringP("format", "f", "", "Output format: csv, json or yaml (default csv)")
	cmd.Flags().String("output", "", "Write to this file instead of standard output")
	return cmd
}

func (r *RootCommand) newOwnersCommand() *cobra.Command {
	list := func(ctx context.Context, cmd *cobra.Command, args []string) error {
		return NewSettingsCommand(r.app, cmd.OutOrStdout()).ListOwners(ctx)
	}

	cmd := &cobra.Command{
		Use:   "owners",
		Short: "Manage where each owner's reminders go",
		Args:  cobra.NoArgs,
		RunE:  r.run(list),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List owners and their reminder email",
			Args:  cobra.NoArgs,
			RunE:  r.run(list),
		},
		&cobra.Command{
			Use:   "set [owner] [email]",
			Short: "Send an owner's reminders to email",
			Args:  cobra.ExactArgs(2),
			RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				return NewSettingsCommand(r.app, cmd.OutOrStdout()).SetOwner(ctx, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "unset [owner]",
			Short: "Send an owner's reminders to the default receiver again",
			Args:  cobra.ExactArgs(1),
			RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				return NewSettingsCommand(r.app, cmd.OutOrStdout()).UnsetOwner(ctx, args[0])
			}),
		},
	)
	return cmd
}

func (r *RootCommand) newSettingsCommand() *cobra.Command {
	show := func(ctx context.Context, cmd *cobra.Command, args []string) error {
		return NewSettingsCommand(r.app, cmd.OutOrStdout()).Show(ctx)
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Change the sender, receiver or password",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			update := SettingsUpdate{
				Sender:   changedString(cmd, "sender"),
				Receiver: changedString(cmd, "receiver"),
				Password: changedString(cmd, "password"),
			}
			if fromStdin, _ := cmd.Flags().GetBool("password-stdin"); fromStdin {
				password, err := readLine(cmd.InOrStdin())
				if err != nil {
					return r.app.errors.Handle("read password", err)
				}
				update.Password = &password
			}
			return NewSettingsCommand(r.app, cmd.OutOrStdout()).Update(ctx, update)
		}),
	}
	set.Flags().String("sender", "", "Sender account email")
	set.Flags().String("receiver", "", "Default receiver email")
	set.Flags().String("password", "", "Sender account password (prefer --password-stdin)")
	set.Flags().Bool("password-stdin", false, "Read the password from standard input")
	set.MarkFlagsMutuallyExclusive("password", "password-stdin")

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the email configuration",
		Args:  cobra.NoArgs,
		RunE:  r.run(show),
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the email configuration",
			Args:  cobra.NoArgs,
			RunE:  r.run(show),
		},
		set,
		&cobra.Command{
			Use:   "test",
			Short: "Send a test email to the receiver",
			Args:  cobra.NoArgs,
			RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				return NewSettingsCommand(r.app, cmd.OutOrStdout()).Test(ctx)
			}),
		},
	)
	return cmd
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *RootCommand) newRemindCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send task reminders",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "now",
			Short: "Send reminders for every eligible active task now",
			Args:  cobra.NoArgs,
			RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				return NewRemindCommand(r.app, cmd.OutOrStdout()).Now(ctx)
			}),
		},
		&cobra.Command{
			Use:   "daily",
			Short: "Send today's reminders if the daily time has passed",
			Args:  cobra.NoArgs,
			RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				return NewRemindCommand(r.app, cmd.OutOrStdout()).Daily(ctx)
			}),
		},
		&cobra.Command{
			Use:   "send [task id]",
			Short: "Send the reminder for one task",
			Args:  cobra.ExactArgs(1),
			RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				return NewRemindCommand(r.app, cmd.OutOrStdout()).Send(ctx, args[0])
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the daily gate and today's reminders",
			Args:  cobra.NoArgs,
			RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
				return NewRemindCommand(r.app, cmd.OutOrStdout()).Status(ctx)
			}),
		},
	)
	return cmd
}

func (r *RootCommand) newChartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Draw a timeline of the tasks",
		Args:  cobra.NoArgs,
		RunE: r.run(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			opts := ChartOptions{Filter: filterFromFlags(cmd)}
			opts.Thickness, _ = cmd.Flags().GetFloat64("thickness")
			opts.SortBy, _ = cmd.Flags().GetString("sort")
			opts.ColorBy, _ = cmd.Flags().GetString("color")
			opts.Width, _ = cmd.Flags().GetInt("width")
			opts.Example, _ = cmd.Flags().GetBool("example")
			opts.NoColor, _ = cmd.Flags().GetBool("no-color")
			return NewChartCommand(r.app, cmd.OutOrStdout()).Execute(ctx, opts)
		}),
	}
	addFilterFlags(cmd)
	cmd.Flags().Float64("thickness", 0, "Bar thickness between 0.1 and 1.0")
	cmd.Flags().String("sort", "", "Sort by start, end, name or owner")
	cmd.Flags().String("color", "", "Group colours by owner or period")
	cmd.Flags().Int("width", 0, "Chart width in columns (default from --chart-width)")
	cmd.Flags().Bool("example", false, "Draw sample data instead of the stored tasks")
	cmd.Flags().Bool("no-color", false, "Disable ANSI colours")
	return cmd
}

func (r *RootCommand) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the daily reminder scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := r.app.API(); err != nil {
				return err
			}
			noScheduler, _ := cmd.Flags().GetBool("no-scheduler")
			return NewServeCommand(r.app).Execute(cmd.Context(), !noScheduler)
		},
	}
	cmd.Flags().Bool("no-scheduler", false, "Serve the API without sending daily reminders")
	return cmd
}
