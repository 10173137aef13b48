package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"todoapp/internal/core/domain/entities"
	"todoapp/internal/core/ports"

	"go.uber.org/zap"
)

type invocation struct {
	tasks ports.TaskUseCases
	log   *zap.Logger
	out   io.Writer
	args  []string
	set   map[string]bool

	filter      string
	force       bool
	title       string
	description string
}

type command struct {
	usage      string
	synopsis   string
	positional int
	flags      func(fs *flag.FlagSet, inv *invocation)
	run        func(ctx context.Context, inv *invocation) error
}

var commands = map[string]command{
	"list": {
		usage:    "list [-filter all|active|completed] [-force]",
		synopsis: "list tasks",
		flags: func(fs *flag.FlagSet, inv *invocation) {
			fs.StringVar(&inv.filter, "filter", string(ports.FilterAll), "")
			fs.BoolVar(&inv.force, "force", false, "")
		},
		run: runList,
	},
	"show": {
		usage:      "show <id>",
		synopsis:   "show a task",
		positional: 1,
		run:        runShow,
	},
	"add": {
		usage:    "add -title <title> [-description <text>]",
		synopsis: "add a task",
		flags:    detailFlags,
		run:      runAdd,
	},
	"edit": {
		usage:      "edit <id> [-title <title>] [-description <text>]",
		synopsis:   "change title or description",
		positional: 1,
		flags:      detailFlags,
		run:        runEdit,
	},
	"done": {
		usage:      "done <id>",
		synopsis:   "mark a task completed",
		positional: 1,
		run: func(ctx context.Context, inv *invocation) error {
			return inv.tasks.CompleteTask(ctx, inv.args[0])
		},
	},
	"activate": {
		usage:      "activate <id>",
		synopsis:   "mark a task active again",
		positional: 1,
		run: func(ctx context.Context, inv *invocation) error {
			return inv.tasks.ActivateTask(ctx, inv.args[0])
		},
	},
	"rm": {
		usage:      "rm <id>",
		synopsis:   "delete a task",
		positional: 1,
		run: func(ctx context.Context, inv *invocation) error {
			return inv.tasks.DeleteTask(ctx, inv.args[0])
		},
	},
	"clear": {
		usage:    "clear",
		synopsis: "delete all completed tasks",
		run: func(ctx context.Context, inv *invocation) error {
			return inv.tasks.ClearCompletedTasks(ctx)
		},
	},
	"refresh": {
		usage:    "refresh",
		synopsis: "reload tasks from the remote service",
		run:      runRefresh,
	},
	"stats": {
		usage:    "stats",
		synopsis: "show active and completed counts",
		run:      runStats,
	},
	"smoke": {
		usage:    "smoke",
		synopsis: "run an end-to-end check against both stores",
		run:      runSmoke,
	},
}

func detailFlags(fs *flag.FlagSet, inv *invocation) {
	fs.StringVar(&inv.title, "title", "", "")
	fs.StringVar(&inv.description, "description", "", "")
}

func runList(ctx context.Context, inv *invocation) error {
	tasks, err := inv.tasks.ListTasks(ctx, ports.TaskFilter(inv.filter), inv.force)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(inv.out, "no tasks")
		return nil
	}
	writeTasks(inv.out, tasks)
	return nil
}

func runShow(ctx context.Context, inv *invocation) error {
	task, err := inv.tasks.GetTask(ctx, inv.args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(inv.out, "id:          %s\n", task.ID())
	fmt.Fprintf(inv.out, "title:       %s\n", task.Title())
	fmt.Fprintf(inv.out, "description: %s\n", task.Description())
	fmt.Fprintf(inv.out, "status:      %s\n", status(task))
	return nil
}

func runAdd(ctx context.Context, inv *invocation) error {
	task, err := inv.tasks.AddTask(ctx, inv.title, inv.description)
	if err != nil {
		return err
	}
	fmt.Fprintln(inv.out, task.ID())
	return nil
}

func runEdit(ctx context.Context, inv *invocation) error {
	if !inv.set["title"] && !inv.set["description"] {
		return fmt.Errorf("%w: edit needs -title or -description", errUsage)
	}

	id := inv.args[0]
	title, description := inv.title, inv.description
	if !inv.set["title"] || !inv.set["description"] {
		current, err := inv.tasks.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if !inv.set["title"] {
			title = current.Title()
		}
		if !inv.set["description"] {
			description = current.Description()
		}
	}

	_, err := inv.tasks.UpdateTask(ctx, id, title, description)
	return err
}

func runRefresh(ctx context.Context, inv *invocation) error {
	tasks, err := inv.tasks.RefreshTasks(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(inv.out, "refreshed %d task(s)\n", len(tasks))
	return nil
}

func runStats(ctx context.Context, inv *invocation) error {
	stats, err := inv.tasks.Statistics(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(inv.out, "active:    %d (%.1f%%)\n", stats.Active, stats.ActivePercent)
	fmt.Fprintf(inv.out, "completed: %d (%.1f%%)\n", stats.Completed, stats.CompletedPercent)
	return nil
}

func writeTasks(w io.Writer, tasks []*entities.Task) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE")
	for _, task := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", task.ID(), status(task), task.TitleForList())
	}
	_ = tw.Flush()
}

func status(task *entities.Task) string {
	if task.IsCompleted() {
		return "done"
	}
	return "active"
}
