package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"godeviate/adapters/chart"
	"godeviate/adapters/export"
	"godeviate/domain/kpi"
	"godeviate/internal/errors"
	"godeviate/internal/pipeline"
	"godeviate/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type indexPage struct {
	Title      string
	Error      string
	Levels     []kpi.Level
	Level      kpi.Level
	HasSession bool
}

type resultsPage struct {
	Title   string
	Levels  []kpi.Level
	Level   kpi.Level
	Report  template.HTML
	Columns []string
	Rows    []kpi.Deviation
}

func (s *Server) handleIndex(c *gin.Context) {
	_, err := s.store.Current()
	s.renderTemplate(c, http.StatusOK, "index.html", indexPage{
		Title:      "Upload",
		Levels:     kpi.Levels,
		Level:      s.defaultLevel,
		HasSession: err == nil,
	})
}

// handleUpload replaces the held session with the analysis of a new file.
// A failed upload clears the old session as well.
func (s *Server) handleUpload(c *gin.Context) {
	s.store.Clear()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.logger.Warn("[handleUpload] upload exceeds %d bytes", s.maxBytes)
			s.renderIndexError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds the %s upload limit", formatBytes(s.maxBytes)))
			return
		}
		s.renderError(c, errors.InvalidInput("no file uploaded", err))
		return
	}
	defer file.Close()

	level, err := s.parseLevel(c.PostForm("level"), s.defaultLevel)
	if err != nil {
		s.renderError(c, err)
		return
	}

	table, err := s.reader.Read(header.Filename, file)
	if err != nil {
		s.renderError(c, errors.InvalidInput(fmt.Sprintf("cannot read %s", header.Filename), err))
		return
	}

	prepared, err := s.analyzer.Prepare(table)
	if err != nil {
		s.renderError(c, err)
		return
	}
	result, err := s.analyzer.Evaluate(prepared, level, s.threshold)
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.store.Replace(&session.Session{
		FileName:   header.Filename,
		UploadedAt: time.Now(),
		Prepared:   prepared,
		Result:     result,
	})
	s.logger.Info("[handleUpload] %s analysed as run %s", header.Filename, result.RunID.Short())
	c.Redirect(http.StatusSeeOther, "/results?level="+string(level))
}

func (s *Server) handleResults(c *gin.Context) {
	res, err := s.currentResult(c.Query("level"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.renderTemplate(c, http.StatusOK, "results.html", resultsPage{
		Title:   res.Source,
		Levels:  kpi.Levels,
		Level:   res.Level,
		Report:  renderMarkdown(export.Markdown(res)),
		Columns: kpi.OutputColumns,
		Rows:    res.Rows,
	})
}

func (s *Server) handleAPIResults(c *gin.Context) {
	res, err := s.currentResult(c.Query("level"))
	if err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, export.NewPayload(res))
}

func (s *Server) handleDownloadCSV(c *gin.Context) {
	s.download(c, "text/csv; charset=utf-8", "csv", func(w io.Writer, res *pipeline.Result) error {
		return export.WriteCSV(w, res.Rows)
	})
}

func (s *Server) handleDownloadXLSX(c *gin.Context) {
	s.download(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", export.WriteXLSX)
}

func (s *Server) handleChart(c *gin.Context) {
	res, err := s.currentResult(c.Query("level"))
	if err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := chart.WritePNG(&buf, res.Rows, chart.DefaultOptions()); err != nil {
		s.logger.Error("[handleChart] run %s: %v", res.RunID.Short(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render chart"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (s *Server) download(c *gin.Context, contentType, ext string, write func(io.Writer, *pipeline.Result) error) {
	res, err := s.currentResult(c.Query("level"))
	if err != nil {
		c.JSON(errors.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, res); err != nil {
		s.logger.Error("[download] %s export of run %s: %v", ext, res.RunID.Short(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"deviasi-%s-%s.%s\"", res.Level, res.RunID.Short(), ext))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// currentResult returns the held result at the requested level; an empty
// level keeps whatever level is currently shown.
func (s *Server) currentResult(levelParam string) (*pipeline.Result, error) {
	sess, err := s.store.Current()
	if err != nil {
		return nil, errors.WithCode(errors.CodeNotFound, err)
	}
	level, err := s.parseLevel(levelParam, sess.Result.Level)
	if err != nil {
		return nil, err
	}
	return s.store.AtLevel(level, s.analyzer)
}

func (s *Server) parseLevel(raw string, fallback kpi.Level) (kpi.Level, error) {
	if raw == "" {
		return fallback, nil
	}
	level, err := kpi.ParseLevel(raw)
	if err != nil {
		return "", errors.InvalidInput("unknown grouping level", err)
	}
	return level, nil
}

func (s *Server) renderError(c *gin.Context, err error) {
	if !errors.IsAppError(err) {
		err = errors.Wrap(err, "unexpected failure")
	}
	status := errors.HTTPStatus(err)
	if status >= 500 {
		s.logger.Error("[renderError] %v", err)
	}
	s.renderIndexError(c, status, err.Error())
}

func (s *Server) renderIndexError(c *gin.Context, status int, msg string) {
	_, sessErr := s.store.Current()
	s.renderTemplate(c, status, "index.html", indexPage{
		Title:      "Error",
		Error:      msg,
		Levels:     kpi.Levels,
		Level:      s.defaultLevel,
		HasSession: sessErr == nil,
	})
}

func formatBytes(n int64) string {
	if n >= 1<<20 && n%(1<<20) == 0 {
		return fmt.Sprintf("%d MiB", n>>20)
	}
	return fmt.Sprintf("%d byte", n)
}

// renderMarkdown turns the generated report into HTML. Raw HTML in cell
// text is dropped rather than passed through.
func renderMarkdown(md []byte) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML(md, p, r))
}
