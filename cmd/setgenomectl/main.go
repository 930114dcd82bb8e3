package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"setgenome/genome"
	"setgenome/params"
	"setgenome/record"
	setapi "setgenome/pkg/setgenome"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "new":
		return runNew(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "mutate":
		return runMutate(ctx, args[1:])
	case "cross":
		return runCross(ctx, args[1:])
	case "list":
		return runList(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "import":
		return runImport(ctx, args[1:])
	case "delete":
		return runDelete(ctx, args[1:])
	case "params":
		return runParams(args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf(`%s

usage: setgenomectl <command> [flags]

commands:
  init     initialize the persistence backend
  new      create and persist a genome
  show     print a persisted genome
  mutate   apply mutation passes to a persisted genome
  cross    recombine two persisted genomes
  list     list persisted genomes
  export   write a persisted genome record to a JSON file
  import   read a genome record from a JSON file and persist it
  delete   remove a persisted genome
  params   write the default parameter file`, msg)
}

type sessionFlags struct {
	paramsPath *string
	storeKind  *string
	dbPath     *string
	runID      *string
}

func addSessionFlags(fs *flag.FlagSet) sessionFlags {
	return sessionFlags{
		paramsPath: fs.String("params", "", "parameter YAML path (empty uses embedded defaults)"),
		storeKind:  fs.String("store", "memory", "store backend: memory|sqlite"),
		dbPath:     fs.String("db-path", "setgenome.db", "sqlite database path"),
		runID:      fs.String("run-id", "default", "run id keying persisted registry state"),
	}
}

func openSession(ctx context.Context, f sessionFlags) (*setapi.Session, error) {
	p, err := params.Load(*f.paramsPath)
	if err != nil {
		return nil, err
	}
	session, err := setapi.New(p, setapi.Options{
		StoreKind: *f.storeKind,
		DBPath:    *f.dbPath,
		RunID:     *f.runID,
	})
	if err != nil {
		return nil, err
	}
	if err := session.Init(ctx); err != nil {
		_ = session.Close()
		return nil, err
	}
	if _, err := session.RestoreRegistry(ctx); err != nil {
		_ = session.Close()
		return nil, err
	}
	return session, nil
}

func closeSession(ctx context.Context, session *setapi.Session) error {
	if err := session.PersistRegistry(ctx); err != nil {
		_ = session.Close()
		return err
	}
	return session.Close()
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	f := addSessionFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := openSession(ctx, f)
	if err != nil {
		return err
	}
	if err := closeSession(ctx, session); err != nil {
		return err
	}
	fmt.Printf("initialized store=%s\n", *f.storeKind)
	return nil
}

func runNew(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	f := addSessionFlags(fs)
	uninitialized := fs.Bool("uninitialized", false, "create without initial connections")
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := openSession(ctx, f)
	if err != nil {
		return err
	}

	var g *genome.Genome
	if *uninitialized {
		g, err = session.UninitializedGenome()
	} else {
		g, err = session.InitializedGenome()
	}
	if err != nil {
		_ = session.Close()
		return err
	}

	id, err := session.SaveGenome(ctx, "", g)
	if err != nil {
		_ = session.Close()
		return err
	}
	if err := closeSession(ctx, session); err != nil {
		return err
	}

	fmt.Printf("created genome id=%s nodes=%d connections=%d\n", id, g.NodeCount(), g.Len())
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	f := addSessionFlags(fs)
	id := fs.String("id", "", "genome id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("show requires -id")
	}

	session, err := openSession(ctx, f)
	if err != nil {
		return err
	}
	defer session.Close()

	g, err := session.LoadGenome(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Printf("genome %s\n", *id)
	for _, n := range g.Nodes() {
		fmt.Printf("  node %d %s\n", n.ID, n.Role)
	}
	for _, c := range g.Connections() {
		decoded, _ := g.DecodedWeight(c.ID)
		fmt.Printf("  connection %d: %d->%d weight=%+.4f bits=%s\n",
			c.ID, c.Source, c.Target, decoded, humanize.Comma(int64(c.Weight.Len())))
	}
	return nil
}

func runMutate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mutate", flag.ContinueOnError)
	f := addSessionFlags(fs)
	id := fs.String("id", "", "genome id")
	passes := fs.Int("passes", 1, "mutation pipeline passes")
	saveAs := fs.String("save-as", "", "persist result under a new id instead of overwriting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("mutate requires -id")
	}
	if *passes < 1 {
		return usageError("passes must be at least 1")
	}

	session, err := openSession(ctx, f)
	if err != nil {
		return err
	}

	g, err := session.LoadGenome(ctx, *id)
	if err != nil {
		_ = session.Close()
		return err
	}

	changed := 0
	for i := 0; i < *passes; i++ {
		applied, err := session.Mutate(g)
		if err != nil {
			_ = session.Close()
			return err
		}
		if applied {
			changed++
		}
	}

	outID := *id
	if *saveAs != "" {
		outID = *saveAs
	}
	if _, err := session.SaveGenome(ctx, outID, g); err != nil {
		_ = session.Close()
		return err
	}
	if err := closeSession(ctx, session); err != nil {
		return err
	}

	fmt.Printf("mutated genome id=%s passes=%d changed=%d nodes=%d connections=%d\n",
		outID, *passes, changed, g.NodeCount(), g.Len())
	return nil
}

func runCross(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("cross", flag.ContinueOnError)
	f := addSessionFlags(fs)
	first := fs.String("first", "", "first (fitter) parent genome id")
	second := fs.String("second", "", "second parent genome id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *first == "" || *second == "" {
		return usageError("cross requires -first and -second")
	}

	session, err := openSession(ctx, f)
	if err != nil {
		return err
	}

	a, err := session.LoadGenome(ctx, *first)
	if err != nil {
		_ = session.Close()
		return err
	}
	b, err := session.LoadGenome(ctx, *second)
	if err != nil {
		_ = session.Close()
		return err
	}

	child, err := session.Crossover(a, b)
	if err != nil {
		_ = session.Close()
		return err
	}
	id, err := session.SaveGenome(ctx, "", child)
	if err != nil {
		_ = session.Close()
		return err
	}
	if err := closeSession(ctx, session); err != nil {
		return err
	}

	fmt.Printf("crossed %s x %s -> id=%s nodes=%d connections=%d distance=%.4f\n",
		*first, *second, id, child.NodeCount(), child.Len(), session.Distance(a, b))
	return nil
}

func runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	f := addSessionFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	session, err := openSession(ctx, f)
	if err != nil {
		return err
	}
	defer session.Close()

	ids, err := session.ListGenomes(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		rec, err := session.LoadGenomeRecord(ctx, id)
		if err != nil {
			return err
		}
		created := rec.CreatedAtUTC
		if at, err := time.Parse(time.RFC3339Nano, rec.CreatedAtUTC); err == nil {
			created = humanize.Time(at)
		}
		fmt.Printf("%s  nodes=%d connections=%d created %s\n",
			id, len(rec.Nodes), len(rec.Connections), created)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f := addSessionFlags(fs)
	id := fs.String("id", "", "genome id")
	out := fs.String("out", "", "output JSON path (empty writes to stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("export requires -id")
	}

	session, err := openSession(ctx, f)
	if err != nil {
		return err
	}
	defer session.Close()

	rec, err := session.LoadGenomeRecord(ctx, *id)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if *out == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0o644); err != nil {
		return err
	}
	fmt.Printf("exported genome id=%s to %s (%s)\n", *id, *out, humanize.Bytes(uint64(len(data))))
	return nil
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	f := addSessionFlags(fs)
	in := fs.String("in", "", "input JSON path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return usageError("import requires -in")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	var rec record.Genome
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("parsing genome record: %w", err)
	}

	session, err := openSession(ctx, f)
	if err != nil {
		return err
	}

	id, err := session.ImportGenomeRecord(ctx, rec)
	if err != nil {
		_ = session.Close()
		return err
	}
	if err := closeSession(ctx, session); err != nil {
		return err
	}
	fmt.Printf("imported genome id=%s\n", id)
	return nil
}

func runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	f := addSessionFlags(fs)
	id := fs.String("id", "", "genome id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return usageError("delete requires -id")
	}

	session, err := openSession(ctx, f)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.DeleteGenome(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("deleted genome id=%s\n", *id)
	return nil
}

func runParams(args []string) error {
	fs := flag.NewFlagSet("params", flag.ContinueOnError)
	out := fs.String("out", "setgenome.yaml", "output parameter YAML path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	p, err := params.Default()
	if err != nil {
		return err
	}
	if err := p.WriteYAML(*out); err != nil {
		return err
	}
	fmt.Printf("wrote default parameters to %s\n", *out)
	return nil
}
