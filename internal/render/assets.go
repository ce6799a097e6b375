package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// Asset names referenced from every rendered page. Written once per build;
// the names are stable so pages can link them relatively.
const (
	AssetCSS = "snipdoc.css"
	AssetJS  = "snipdoc.js"
)

const styleCSS = `.snipdoc { background: #f6f8fa; padding: .75em; border-radius: 4px; overflow-x: auto; }
.snipdoc code { font-family: ui-monospace, monospace; }
.tok-keyword { color: #9c27b0; font-weight: 600; }
.tok-command { color: #1565c0; font-weight: 600; }
.tok-ident { color: #24292f; }
.tok-int, .tok-string { color: #0a7d32; }
.tok-comment, .tok-doc { color: #6e7781; font-style: italic; }
.tok-op { color: #cf222e; }
.snipdoc-ref { text-decoration: none; border-bottom: 1px dotted #8c959f; }
.snipdoc-inline { background: #f6f8fa; padding: 0 .25em; border-radius: 3px; }
.snipdoc-diagnostics { margin: .25em 0 1em; font-size: .9em; }
.snipdoc-diagnostic { padding: .25em .75em; border-left: 3px solid; white-space: pre-wrap; font-family: ui-monospace, monospace; }
.snipdoc-information { border-color: #1565c0; background: #eaf2fb; }
.snipdoc-warning { border-color: #bf8700; background: #fff8e5; }
.snipdoc-error { border-color: #cf222e; background: #ffebe9; }
.snipdoc-output { padding: .5em .75em; border-left: 3px solid #8c959f; background: #f6f8fa; }
.snipdoc-tooltip { position: absolute; z-index: 10; max-width: 32em; padding: .5em .75em; background: #24292f; color: #f6f8fa; border-radius: 4px; font-size: .85em; pointer-events: none; }
.snipdoc-tooltip .sig { font-family: ui-monospace, monospace; }
.snipdoc-tooltip .doc { margin-top: .25em; opacity: .85; }
`

const tooltipJS = `(function () {
  "use strict";
  var tip = null;
  function hide() { if (tip) { tip.remove(); tip = null; } }
  function show(el) {
    hide();
    var sig = el.getAttribute("data-hover-sig");
    if (!sig) return;
    tip = document.createElement("div");
    tip.className = "snipdoc-tooltip";
    var sigEl = document.createElement("div");
    sigEl.className = "sig";
    sigEl.textContent = sig;
    tip.appendChild(sigEl);
    var doc = el.getAttribute("data-hover-doc");
    if (doc) {
      var docEl = document.createElement("div");
      docEl.className = "doc";
      docEl.textContent = doc;
      tip.appendChild(docEl);
    }
    document.body.appendChild(tip);
    var rect = el.getBoundingClientRect();
    tip.style.left = (window.scrollX + rect.left) + "px";
    tip.style.top = (window.scrollY + rect.bottom + 4) + "px";
  }
  document.addEventListener("mouseover", function (ev) {
    var el = ev.target.closest("[data-hover-sig]");
    if (el) { show(el); } else { hide(); }
  });
})();
`

// WriteAssets writes the CSS/JS bundle into the output directory. Contents
// are fixed per release, so an unconditional overwrite is the dedupe.
func WriteAssets(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create asset dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, AssetCSS), []byte(styleCSS), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", AssetCSS, err)
	}
	if err := os.WriteFile(filepath.Join(dir, AssetJS), []byte(tooltipJS), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", AssetJS, err)
	}
	return nil
}
