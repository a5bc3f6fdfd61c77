package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	rl "github.com/chzyer/readline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avanderw/highsociety/client"
	"github.com/avanderw/highsociety/game"
)

const (
	RED     = "[31m"
	GREEN   = "[32m"
	YELLOW  = "[33m"
	BLUE    = "[34m"
	MAGENTA = "[35m"
)

func col(s string) string {
	switch s {
	case "red":
		return RED
	case "green":
		return GREEN
	case "yellow":
		return YELLOW
	case "blue":
		return BLUE
	case "purple":
		return MAGENTA
	default:
		return "[0m"
	}
}

func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	server := flag.String("server", "localhost:8090", "server address")
	room := flag.String("room", "", "room to join")
	name := flag.String("name", "", "player name")
	ticketFile := flag.String("ticket", "ticket.json", "rejoin ticket file")
	rejoin := flag.Bool("rejoin", false, "reclaim the seat in the ticket file")
	turnSeconds := flag.Int("turn", 0, "seconds per turn if hosting, 0 for no limit")
	flag.Parse()

	_ = godotenv.Load()

	var c client.Client
	if *rejoin {
		t, err := client.LoadTicket(*ticketFile)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load ticket")
		}
		c = client.NewRejoinClient(log.Logger, *server, t, *turnSeconds)
	} else {
		if *room == "" || *name == "" {
			fmt.Println("need -room and -name, or -rejoin")
			os.Exit(1)
		}
		c = client.NewClient(log.Logger, *server, *room, *name, *turnSeconds)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := c.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Printf("connection lost: %v\n", err)
		}
	}()

	s := c.Session()

	completer := rl.NewPrefixCompleter(
		rl.PcItem("start"),
		rl.PcItem("bid"),
		rl.PcItem("pass"),
		rl.PcItem("discard"),
		rl.PcItem("status"),
		rl.PcItem("hand"),
		rl.PcItem("players"),
		rl.PcItem("rankings"),
		rl.PcItem("follow"),
		rl.PcItem("restart"),
		rl.PcItem("ready"),
		rl.PcItem("save"),
	)

	l, err := rl.NewEx(&rl.Config{
		Prompt:            "» ",
		HistoryFile:       "hist.txt",
		AutoComplete:      completer,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	repl(l, s, *ticketFile)
}

func repl(l *rl.Instance, s *client.Session, ticketFile string) {
	for {
		updatePrompt(l, s)

		line, err := l.Readline()
		if err == rl.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
		cmd := parts[0]
		rest := ""
		if len(parts) == 2 {
			rest = parts[1]
		}

		switch cmd {
		case "start":
			var seed *int64
			if rest != "" {
				n, err := strconv.ParseInt(rest, 10, 64)
				if err != nil {
					fmt.Printf("start [seed]\n")
					continue
				}
				seed = &n
			}
			if err := s.StartGame(seed); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		case "bid":
			ids := strings.Fields(rest)
			if len(ids) == 0 {
				fmt.Printf("bid <money-card-id> ...\n")
				continue
			}
			if err := s.PlaceBid(ids); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		case "pass":
			if err := s.PassTurn(); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		case "discard":
			var id string
			if _, err := fmt.Sscan(rest, &id); err != nil {
				fmt.Printf("discard <luxury-card-id>\n")
				continue
			}
			if err := s.DiscardLuxury(id); err != nil {
				fmt.Printf("error: %v\n", err)
			}
		case "status":
			printStatus(s)
		case "hand":
			printHand(s)
		case "players":
			printPlayers(s)
		case "rankings":
			printRankings(s.Rankings())
		case "follow":
			follow(s)
		case "restart":
			s.RequestRestart()
		case "ready":
			s.ReadyRestart()
		case "save":
			if err := client.SaveTicket(ticketFile, s.Ticket()); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Printf("saved to %s\n", ticketFile)
		case "":
			printStatus(s)
		default:
			fmt.Printf("unknown\n")
		}
	}
}

func updatePrompt(l *rl.Instance, s *client.Session) {
	snap := s.Projection()
	if snap == nil {
		l.SetPrompt("» ")
		return
	}

	turn := ""
	colour := ""
	if snap.Turn >= 0 && snap.Turn < len(snap.Players) {
		p := snap.Players[snap.Turn]
		turn = p.Name
		colour = p.Colour
		if p.ID == s.SelfID() {
			turn = turn + "!"
		}
	}
	l.SetPrompt(fmt.Sprintf("\033%s%s|%s»\033[0m ", col(colour), snap.Phase, turn))
}

func follow(s *client.Session) {
	fmt.Println("following, ^C to stop")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	for {
		select {
		case m := <-s.Updates():
			fmt.Println(">", m)
		case <-ctx.Done():
			return
		}
	}
}

func printStatus(s *client.Session) {
	snap := s.Projection()
	if snap == nil {
		fmt.Println("no game yet")
		return
	}

	fmt.Printf("Phase:    %s\n", snap.Phase)
	fmt.Printf("Triggers: %d of 4\n", snap.Triggers)
	fmt.Printf("Deck:     %d left\n", snap.DeckRemaining)
	if snap.Auction != nil {
		a := snap.Auction
		fmt.Printf("Auction:  %s (%s), high bid %d\n", a.Card.Name, a.Variant, a.HighBid)
		if snap.Turn >= 0 && snap.Turn < len(snap.Players) {
			fmt.Printf("Turn:     %s\n", snap.Players[snap.Turn].Name)
		}
	}
}

func printHand(s *client.Session) {
	snap := s.Projection()
	if snap == nil {
		fmt.Println("no game yet")
		return
	}

	for _, p := range snap.Players {
		if p.ID != s.SelfID() {
			continue
		}
		fmt.Printf("Hand:\n")
		for _, c := range p.Hand {
			fmt.Printf("\t%s: %d\n", c.ID, c.Value)
		}
		if len(p.Wager) > 0 {
			fmt.Printf("Wagered:\n")
			for _, c := range p.Wager {
				fmt.Printf("\t%s: %d\n", c.ID, c.Value)
			}
		}
		if p.PendingDiscard {
			fmt.Printf("You owe a luxury discard\n")
		}
	}
}

func printPlayers(s *client.Session) {
	snap := s.Projection()
	if snap == nil {
		fmt.Println("no game yet")
		return
	}

	for _, p := range snap.Players {
		status := game.CalculateStatus(p.Collection)
		marker := ""
		if p.ID == s.SelfID() {
			marker = " (you)"
		}
		if p.ID == s.HostID() {
			marker += " (host)"
		}
		fmt.Printf("\033%s%s\033[0m%s: status %d, %d cards wagered\n",
			col(p.Colour), p.Name, marker, status, len(p.Wager))
		for _, c := range p.Collection {
			fmt.Printf("\t%s (%s)\n", c.Name, c.Kind)
		}
	}
}

func printRankings(rankings []game.Ranking) {
	if len(rankings) == 0 {
		fmt.Println("no rankings yet")
		return
	}
	for _, r := range rankings {
		out := ""
		if r.CastOut {
			out = " (cast out)"
		}
		fmt.Printf("%d. %s: status %d, money %d%s\n", r.Rank, r.Name, r.Status, r.Money, out)
	}
}
