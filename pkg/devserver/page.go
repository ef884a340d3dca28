package devserver

import (
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"
)

func writeIndexPage(w http.ResponseWriter, names []string) {
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>lumen</title></head><body>")
	b.WriteString("<h1>lumen preview</h1><ul>")
	for _, name := range names {
		esc := html.EscapeString(name)
		fmt.Fprintf(&b, `<li><a href="/demo/%s">%s</a></li>`, esc, esc)
	}
	b.WriteString("</ul></body></html>")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

func writeDemoPage(w http.ResponseWriter, name string) {
	esc := html.EscapeString(name)
	page := fmt.Sprintf(demoPage, esc, esc, esc)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

// demoPage is the browser shell: it mirrors the server-side tree into
// #preview on every socket update and posts interactions back. Nodes
// with handlers are addressable through the data-node attribute the
// HTML serializer emits.
const demoPage = `<!DOCTYPE html>
<html>
<head><title>lumen: %s</title></head>
<body>
<h1>%s</h1>
<div id="preview"></div>
<script>
(function () {
  var name = %q;
  var preview = document.getElementById("preview");

  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/ws/" + name);
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "update") {
      preview.innerHTML = msg.html;
    }
  };

  function send(node, type, data) {
    fetch("/event/" + name + "/" + node + "/" + type, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(data || {})
    });
  }

  preview.addEventListener("click", function (ev) {
    var el = ev.target.closest("[data-node]");
    if (el) send(el.getAttribute("data-node"), "click");
  });
  preview.addEventListener("input", function (ev) {
    var el = ev.target.closest("[data-node]");
    if (el) send(el.getAttribute("data-node"), "input", { value: ev.target.value });
  });
})();
</script>
</body>
</html>
`
