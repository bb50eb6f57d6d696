package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"docqa/internal/chunker"
	"docqa/internal/config"
	"docqa/internal/download"
	"docqa/internal/lexical"
	"docqa/internal/logger"
	"docqa/internal/repl"
	"docqa/internal/service"
	"docqa/internal/summarizer"
	"docqa/internal/tui"
)

const readyBanner = "\nReady! Ask your questions about the document. Type \"exit\" to quit."

func loadConfig() (*config.AppConfig, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	cfg, used, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	if used != "" {
		logger.Debug("using config %s", used)
	}
	return cfg, nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if topK > 0 {
		cfg.Retrieval.TopK = topK
	}
	if useTUI && !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("--tui requires a terminal")
	}

	in := bufio.NewReader(cmd.InOrStdin())
	url := cfg.Source.URL
	if len(args) == 1 {
		url = args[0]
	}
	if url == "" {
		if url, err = promptURL(in, out); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "Downloading markdown...")
	doc, err := download.NewClient(download.Config{Timeout: config.Seconds(cfg.Source.TimeoutSecs)}).Fetch(ctx, url)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Chunking markdown...")
	splitter, err := chunker.NewRecursiveChunker(chunker.Options{
		ChunkSize:    cfg.Chunker.ChunkSize,
		ChunkOverlap: cfg.Chunker.ChunkOverlap,
		Separators:   cfg.Chunker.Separators,
	})
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	chat, err := newChatModel(cfg)
	if err != nil {
		return err
	}
	store, err := newVectorStore(cfg)
	if err != nil {
		return err
	}
	opts := []service.Option{
		service.WithTopK(cfg.Retrieval.TopK),
		service.WithEmbedRateLimit(cfg.Embedder.RequestsPerSecond, cfg.Embedder.Burst),
		service.WithSummarizer(summarizer.NewFrequencySummarizer(), summarizer.DefaultSentences),
	}
	if cfg.LexicalFallbackEnabled() {
		idx, err := lexical.New()
		if err != nil {
			return err
		}
		defer idx.Close()
		opts = append(opts, service.WithLexicalIndex(idx))
	}
	svc := service.NewRAGService(splitter, embedder, store, chat, opts...)

	fmt.Fprintln(out, "Embedding and indexing...")
	n, err := svc.Ingest(ctx, doc)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}
	logger.Info("%d chunks indexed, top-k %d, chat model %s", n, cfg.Retrieval.TopK, chat.Name())
	logger.Debug("overview: %s", svc.Overview())

	if useTUI {
		m := tui.New(ctx, svc, path.Base(url), svc.Overview())
		_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	}
	fmt.Fprintln(out, readyBanner)
	return repl.Run(ctx, svc, in, out, cmd.ErrOrStderr())
}

func promptURL(in *bufio.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter the URL to your markdown file: ")
	line, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("read url: %w", err)
	}
	url := strings.TrimSpace(line)
	if url == "" {
		return "", errors.New("no URL given")
	}
	return url, nil
}
