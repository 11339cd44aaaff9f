package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bcntransit/bcnt-cli/internal/models"
	"github.com/bcntransit/bcnt-cli/internal/output"
)

// Arrivals/alerts flags
var (
	flagLine      string
	flagWatch     bool
	flagMaxTrips  int
	flagAllAlerts bool
)

func init() {
	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(stationsCmd)
	rootCmd.AddCommand(arrivalsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(stationCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(bicingCmd)

	arrivalsCmd.Flags().StringVarP(&flagLine, "line", "l", "", "Filter by line code or name (exact match)")
	arrivalsCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "Watch mode: live countdowns, refetch every 30 seconds")
	arrivalsCmd.Flags().IntVarP(&flagMaxTrips, "trips", "n", 3, "Trips shown per route (0 shows all)")

	alertsCmd.Flags().StringVarP(&flagLine, "line", "l", "", "Only alerts affecting this line")
	alertsCmd.Flags().BoolVar(&flagAllAlerts, "all", false, "Include planned and expired alerts")
}

const typesHelp = `Transport types:
  metro      - TMB metro
  bus        - TMB bus
  tram       - Trambaix / Trambesòs
  rodalies   - Rodalies de Catalunya
  fgc        - Ferrocarrils de la Generalitat
  bicing     - Bike-share (bicing command only)`

var linesCmd = &cobra.Command{
	Use:   "lines <type>",
	Short: "List the lines of a network",
	Long: `List the lines of a network with their alert status.

` + typesHelp + `

Examples:
  bcnt lines metro
  bcnt lines rodalies --json`,
	Args: cobra.ExactArgs(1),
	RunE: runLines,
}

var stationsCmd = &cobra.Command{
	Use:   "stations <type> <line>",
	Short: "List the stations of a line",
	Long: `List the stations of a line in route order.

The line is the code shown by 'bcnt lines', e.g.:
  bcnt stations metro 1
  bcnt stations rodalies R3`,
	Args: cobra.ExactArgs(2),
	RunE: runStations,
}

var arrivalsCmd = &cobra.Command{
	Use:   "arrivals <type> <station>",
	Short: "Show the next arrivals at a station",
	Long: `Show the routes serving a station with countdowns to the next trips.

Countdowns read "1 min 30s" inside the last hour and switch to the
arrival time of day further out. The soonest trip is highlighted when it
is less than a minute away.

Use 'bcnt search <name>' or 'bcnt stations <type> <line>' to find
station codes.

Filtering:
  --line, -l <line>      Only routes of this line (code or name)
  --trips, -n <n>        Trips shown per route

Watch Mode:
  --watch, -w            Redraw countdowns live and refetch every 30 seconds

Examples:
  bcnt arrivals metro 127
  bcnt arrivals metro 127 --line L1
  bcnt arrivals bus 1265 --watch`,
	Args: cobra.ExactArgs(2),
	RunE: runArrivals,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for stations by name",
	Long: `Search for stations by name across every network.

Example:
  bcnt search Catalunya
  bcnt search "Sagrada Família"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your recent searches",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var stationCmd = &cobra.Command{
	Use:   "station <type> <station>",
	Short: "Show connections and accesses of a station",
	Long: `Show the other lines reachable from a station and its street
accesses, marking the ones with an elevator.

Example:
  bcnt station metro 127`,
	Args: cobra.ExactArgs(2),
	RunE: runStation,
}

var alertsCmd = &cobra.Command{
	Use:   "alerts <type>",
	Short: "Show service alerts of a network",
	Long: `Show the active service alerts of a network in your language.
Alerts whose window has not started or has already ended are hidden
unless --all is given.

Examples:
  bcnt alerts metro
  bcnt alerts metro --line L1
  bcnt alerts metro --all
  bcnt alerts rodalies --lang ca`,
	Args: cobra.ExactArgs(1),
	RunE: runAlerts,
}

var bicingCmd = &cobra.Command{
	Use:   "bicing <station>",
	Short: "Show bike and dock availability of a Bicing station",
	Args:  cobra.ExactArgs(1),
	RunE:  runBicing,
}

func runLines(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	tt, err := parseType(args[0], true)
	if err != nil {
		return err
	}

	client, err := createClient()
	if err != nil {
		return err
	}

	// Raw JSON output
	if flagRawJSON {
		raw, err := client.GetLinesRaw(ctx, tt)
		if err != nil {
			return err
		}
		return printPrettyJSON(raw)
	}

	lines, err := client.GetLines(ctx, tt)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(lines)
	}

	output.RenderLines(os.Stdout, lines, tableOptions(client))
	return nil
}

func runStations(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	tt, err := parseType(args[0], true)
	if err != nil {
		return err
	}
	line := args[1]

	client, err := createClient()
	if err != nil {
		return err
	}

	if flagRawJSON {
		raw, err := client.GetStationsByLineRaw(ctx, tt, line)
		if err != nil {
			return err
		}
		return printPrettyJSON(raw)
	}

	stations, err := client.GetStationsByLine(ctx, tt, line)
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(stations)
	}

	output.RenderStations(os.Stdout, stations, tableOptions(client))
	return nil
}

// filterRoutes keeps the routes of line, matched on code or name; an empty
// line keeps all.
func filterRoutes(routes []models.Route, line string) []models.Route {
	line = strings.TrimSpace(line)
	if line == "" {
		return routes
	}

	filtered := make([]models.Route, 0, len(routes))
	for _, r := range routes {
		if strings.EqualFold(r.LineCode, line) || strings.EqualFold(r.LineName, line) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func runArrivals(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	tt, err := parseType(args[0], true)
	if err != nil {
		return err
	}
	station := args[1]

	client, err := createClient()
	if err != nil {
		return err
	}

	opts := tableOptions(client)
	opts.MaxTrips = flagMaxTrips

	// Watch mode
	if flagWatch {
		return runWatch(ctx, opts, func(ctx context.Context) ([]models.Route, error) {
			routes, err := client.GetStationRoutes(ctx, tt, station)
			if err != nil {
				return nil, err
			}
			return filterRoutes(routes, flagLine), nil
		})
	}

	if flagRawJSON {
		raw, err := client.GetStationRoutesRaw(ctx, tt, station)
		if err != nil {
			return err
		}
		return printPrettyJSON(raw)
	}

	routes, err := client.GetStationRoutes(ctx, tt, station)
	if err != nil {
		return err
	}
	routes = filterRoutes(routes, flagLine)

	if flagJSON {
		return printJSON(routes)
	}

	output.RenderRoutes(os.Stdout, routes, opts)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := strings.Join(args, " ")

	client, err := createClient()
	if err != nil {
		return err
	}

	if flagRawJSON {
		raw, err := client.SearchStationsRaw(ctx, query)
		if err != nil {
			return err
		}
		return printPrettyJSON(raw)
	}

	stations, err := client.SearchStations(ctx, query)
	if err != nil {
		return userError(err)
	}

	if flagJSON {
		return printJSON(stations)
	}

	output.RenderStations(os.Stdout, stations, tableOptions(client))
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := createClient()
	if err != nil {
		return err
	}

	if flagRawJSON {
		raw, err := client.GetSearchHistoryRaw(ctx)
		if err != nil {
			return userError(err)
		}
		return printPrettyJSON(raw)
	}

	history, err := client.GetSearchHistory(ctx)
	if err != nil {
		return userError(err)
	}

	if flagJSON {
		return printJSON(history)
	}

	output.RenderSearchHistory(os.Stdout, history, tableOptions(client))
	return nil
}

// stationDetail is the JSON shape of the station command
type stationDetail struct {
	Type        models.TransportType `json:"type"`
	Code        string               `json:"code"`
	Connections []models.Connection  `json:"connections"`
	Accesses    []models.Access      `json:"accesses"`
}

func runStation(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	tt, err := parseType(args[0], true)
	if err != nil {
		return err
	}
	code := args[1]

	client, err := createClient()
	if err != nil {
		return err
	}

	if flagRawJSON {
		conns, err := client.GetStationConnectionsRaw(ctx, tt, code)
		if err != nil {
			return err
		}
		accesses, err := client.GetStationAccessesRaw(ctx, tt, code)
		if err != nil {
			return err
		}
		if err := printPrettyJSON(conns); err != nil {
			return err
		}
		return printPrettyJSON(accesses)
	}

	conns, err := client.GetStationConnections(ctx, tt, code)
	if err != nil {
		return fmt.Errorf("connections: %w", err)
	}
	accesses, err := client.GetStationAccesses(ctx, tt, code)
	if err != nil {
		return fmt.Errorf("accesses: %w", err)
	}

	if flagJSON {
		return printJSON(stationDetail{Type: tt, Code: code, Connections: conns, Accesses: accesses})
	}

	st := &models.Station{Code: code, Name: tt.Label(), TransportType: tt}
	output.RenderStationDetail(os.Stdout, st, conns, accesses, tableOptions(client))
	return nil
}

func runAlerts(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	tt, err := parseType(args[0], true)
	if err != nil {
		return err
	}

	client, err := createClient()
	if err != nil {
		return err
	}

	if flagRawJSON {
		raw, err := client.GetAlertsRaw(ctx, tt)
		if err != nil {
			return err
		}
		return printPrettyJSON(raw)
	}

	alerts, err := client.GetAlerts(ctx, tt)
	if err != nil {
		return err
	}
	alerts = selectAlerts(alerts, flagLine, flagAllAlerts, time.Now())

	if flagJSON {
		return printJSON(alerts)
	}

	output.RenderAlerts(os.Stdout, alerts, tableOptions(client))
	return nil
}

// selectAlerts applies the --line and --all filters.
func selectAlerts(alerts []models.Alert, line string, all bool, now time.Time) []models.Alert {
	if !all {
		alerts = models.ActiveAlerts(alerts, now)
	}
	return models.FilterAlerts(alerts, line)
}

func runBicing(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, err := createClient()
	if err != nil {
		return err
	}

	if flagRawJSON {
		raw, err := client.GetBicingStationRaw(ctx, args[0])
		if err != nil {
			return err
		}
		return printPrettyJSON(raw)
	}

	station, err := client.GetBicingStation(ctx, args[0])
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(station)
	}

	output.RenderBicing(os.Stdout, station, tableOptions(client))
	return nil
}
